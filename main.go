package main

import (
	"log"

	"finance-server/confs"
	"finance-server/db"
	"finance-server/server"
	"finance-server/services"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// connect to database
	database, err := db.Connect(cfg.Database, cfg.Server.Production)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	var opts []server.Option
	if cfg.AMQPURL != "" {
		publisher, err := services.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("Failed to connect to AMQP broker: %v", err)
		}
		defer publisher.Close()
		opts = append(opts, server.WithPublisher(publisher))
	}

	if !cfg.Mail.Configured() {
		log.Println("Mail is not configured; password reset requests will fail")
	}

	// run server
	srv := server.NewServer(database, cfg, opts...)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
