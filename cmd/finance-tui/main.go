package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const defaultAPIURL = "http://127.0.0.1:5000/api"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	incomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	expenseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type step int

const (
	stepEnteringUsername step = iota
	stepEnteringPassword
	stepLoggingIn
	stepBrowsing
	stepEnteringAmount
	stepEnteringCategory
	stepChoosingType
)

type model struct {
	api          *apiClient
	step         step
	username     string
	transactions []transaction
	cursor       int
	currentInput string
	newAmount    float64
	newCategory  string
	message      string
	quitting     bool
}

type loginSuccessMsg struct{}
type historyMsg []transaction
type changedMsg struct{ note string }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(api *apiClient) model {
	return model{api: api, step: stepEnteringUsername}
}

func (m model) Init() tea.Cmd {
	return nil
}

func loginUser(api *apiClient, username, password string) tea.Cmd {
	return func() tea.Msg {
		if err := api.login(username, password); err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{}
	}
}

func loadHistory(api *apiClient) tea.Cmd {
	return func() tea.Msg {
		txs, err := api.history()
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(txs)
	}
}

func deleteTransaction(api *apiClient, id uint) tea.Cmd {
	return func() tea.Msg {
		if err := api.remove(id); err != nil {
			return errMsg{err}
		}
		return changedMsg{note: fmt.Sprintf("Deleted transaction %d", id)}
	}
}

func addTransaction(api *apiClient, amount float64, txType, category string) tea.Cmd {
	return func() tea.Msg {
		if err := api.add(amount, txType, category); err != nil {
			return errMsg{err}
		}
		return changedMsg{note: "Transaction added"}
	}
}

func (m model) typing() bool {
	switch m.step {
	case stepEnteringUsername, stepEnteringPassword, stepEnteringAmount, stepEnteringCategory:
		return true
	}
	return false
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.typing() {
			return m.updateInput(msg)
		}
		return m.updateBrowsing(msg)

	case loginSuccessMsg:
		m.step = stepBrowsing
		m.message = successStyle.Render("✓ Logged in as " + m.username)
		return m, loadHistory(m.api)

	case historyMsg:
		m.transactions = []transaction(msg)
		if m.cursor >= len(m.transactions) {
			m.cursor = max(len(m.transactions)-1, 0)
		}

	case changedMsg:
		m.message = successStyle.Render("✓ " + msg.note)
		return m, loadHistory(m.api)

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		if m.step == stepLoggingIn {
			m.step = stepEnteringUsername
		}
	}

	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.step == stepEnteringAmount || m.step == stepEnteringCategory {
			m.currentInput = ""
			m.step = stepBrowsing
		}
		return m, nil

	case tea.KeyBackspace:
		if len(m.currentInput) > 0 {
			m.currentInput = m.currentInput[:len(m.currentInput)-1]
		}
		return m, nil

	case tea.KeyEnter:
		input := strings.TrimSpace(m.currentInput)
		switch m.step {
		case stepEnteringUsername:
			if input != "" {
				m.username = input
				m.currentInput = ""
				m.step = stepEnteringPassword
			}

		case stepEnteringPassword:
			if m.currentInput != "" {
				password := m.currentInput
				m.currentInput = ""
				m.step = stepLoggingIn
				m.message = "Logging in..."
				return m, loginUser(m.api, m.username, password)
			}

		case stepEnteringAmount:
			amount, err := strconv.ParseFloat(input, 64)
			if err != nil || amount <= 0 {
				m.message = errorStyle.Render("✗ amount must be a positive number")
				return m, nil
			}
			m.newAmount = amount
			m.currentInput = ""
			m.step = stepEnteringCategory

		case stepEnteringCategory:
			m.newCategory = input
			m.currentInput = ""
			m.step = stepChoosingType
		}
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		m.currentInput += msg.String()
	}
	return m, nil
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.step == stepChoosingType {
		switch msg.String() {
		case "i":
			m.step = stepBrowsing
			return m, addTransaction(m.api, m.newAmount, "income", m.newCategory)
		case "e":
			m.step = stepBrowsing
			return m, addTransaction(m.api, m.newAmount, "expenses", m.newCategory)
		case "esc":
			m.step = stepBrowsing
		}
		return m, nil
	}

	if m.step != stepBrowsing {
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.transactions)-1 {
			m.cursor++
		}

	case "r":
		m.message = ""
		return m, loadHistory(m.api)

	case "a":
		m.message = ""
		m.step = stepEnteringAmount

	case "d":
		if len(m.transactions) > 0 {
			return m, deleteTransaction(m.api, m.transactions[m.cursor].ID)
		}
	}
	return m, nil
}

// totals sums income and expenses with decimal arithmetic.
func totals(txs []transaction) (income, expenses decimal.Decimal) {
	for _, tx := range txs {
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == "income" {
			income = income.Add(amount)
		} else {
			expenses = expenses.Add(amount)
		}
	}
	return income, expenses
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Personal Finance\n\n"))

	switch m.step {
	case stepEnteringUsername:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter your username:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Enter your password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn:
		s.WriteString(m.message + "\n")

	case stepEnteringAmount:
		s.WriteString(promptStyle.Render("Amount:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nEnter to continue, Esc to cancel\n")
		if m.message != "" {
			s.WriteString("\n" + m.message + "\n")
		}

	case stepEnteringCategory:
		s.WriteString(promptStyle.Render("Category (blank for General):\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nEnter to continue, Esc to cancel\n")

	case stepChoosingType:
		s.WriteString(promptStyle.Render(fmt.Sprintf("%.2f: (i)ncome or (e)xpense?\n", m.newAmount)))

	case stepBrowsing:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		if len(m.transactions) == 0 {
			s.WriteString("No transactions yet.\n")
		}
		for i, tx := range m.transactions {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			date := "----------"
			if tx.Date != nil {
				date = *tx.Date
			}
			amount := expenseStyle.Render(fmt.Sprintf("-%.2f", tx.Amount))
			if tx.Type == "income" {
				amount = incomeStyle.Render(fmt.Sprintf("+%.2f", tx.Amount))
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n", cursor, style.Render(fmt.Sprintf("%s  %-16s", date, tx.Category)), amount))
		}

		income, expenses := totals(m.transactions)
		s.WriteString(fmt.Sprintf("\nIncome %s   Expenses %s   Balance %s\n",
			incomeStyle.Render(income.StringFixed(2)),
			expenseStyle.Render(expenses.StringFixed(2)),
			income.Sub(expenses).StringFixed(2)))
		s.WriteString("\nj/k move, a add, d delete, r refresh, q quit\n")
	}

	return s.String()
}

func main() {
	baseURL := os.Getenv("FINANCE_API_URL")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	p := tea.NewProgram(initialModel(newAPIClient(baseURL)))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
