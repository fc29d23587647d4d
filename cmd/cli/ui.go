package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jejomarc/askjejo/internal/client"
	"github.com/jejomarc/askjejo/internal/domain"
)

const requestTimeout = 150 * time.Second

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sidebarStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	userStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	botStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

type screen int

const (
	screenLogin screen = iota
	screenChat
)

type (
	restoredMsg struct {
		creds *client.Credentials
	}
	loginDoneMsg struct {
		creds *client.Credentials
		err   error
	}
	logoutDoneMsg struct{}
	historyMsg    struct {
		chats []domain.ChatSummary
		err   error
	}
	chatOpenedMsg struct {
		chat     *domain.Chat
		messages []domain.Message
		err      error
	}
	askDoneMsg struct {
		localID uuid.UUID
		chatID  int64
		result  *domain.AskResult
		err     error
	}
	deleteDoneMsg struct {
		chatID int64
		err    error
	}
)

type model struct {
	session *client.Session
	state   client.State

	screen screen
	email  textinput.Model
	pass   textinput.Model
	input  textinput.Model
	vp     viewport.Model
	spin   spinner.Model

	loginFocus int
	cursor     int
	width      int
	height     int
	ready      bool
	busy       bool
	errText    string
	user       *client.Credentials
}

func newModel(session *client.Session) model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword

	input := textinput.New()
	input.Placeholder = "Ask something..."

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return model{
		session: session,
		state:   client.NewState(),
		screen:  screenLogin,
		email:   email,
		pass:    pass,
		input:   input,
		spin:    spin,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.restoreCmd(), m.spin.Tick)
}

func (m model) restoreCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		creds, _ := m.session.Restore(ctx)
		return restoredMsg{creds: creds}
	}
}

func (m model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		creds, err := m.session.Login(ctx, email, password)
		return loginDoneMsg{creds: creds, err: err}
	}
}

func (m model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_ = m.session.Logout(ctx)
		return logoutDoneMsg{}
	}
}

func (m model) historyCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		chats, err := m.session.API.History(ctx)
		return historyMsg{chats: chats, err: err}
	}
}

func (m model) openChatCmd(chatID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		chat, messages, err := m.session.API.Messages(ctx, chatID)
		return chatOpenedMsg{chat: chat, messages: messages, err: err}
	}
}

func (m model) askCmd(localID uuid.UUID, chatID int64, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := m.session.API.Ask(ctx, domain.AskRequest{Message: message, ChatID: chatID})
		return askDoneMsg{localID: localID, chatID: chatID, result: result, err: err}
	}
}

func (m model) deleteChatCmd(chatID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := m.session.API.DeleteChat(ctx, chatID)
		return deleteDoneMsg{chatID: chatID, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp = viewport.New(m.timelineWidth(), m.timelineHeight())
		m.ready = true
		m.refreshTimeline()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case restoredMsg:
		if msg.creds != nil {
			m.user = msg.creds
			m.screen = screenChat
			m.input.Focus()
			return m, m.historyCmd()
		}
		return m, nil

	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.user = msg.creds
		m.errText = ""
		m.screen = screenChat
		m.input.Focus()
		return m, m.historyCmd()

	case logoutDoneMsg:
		m.user = nil
		m.state = client.NewState()
		m.screen = screenLogin
		m.email.SetValue("")
		m.pass.SetValue("")
		m.loginFocus = 0
		m.email.Focus()
		m.pass.Blur()
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.state = client.Reduce(m.state, client.ChatListLoaded{Chats: msg.chats})
		return m, nil

	case chatOpenedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.state = client.Reduce(m.state, client.ChatOpened{Chat: *msg.chat, Messages: msg.messages})
		m.refreshTimeline()
		return m, nil

	case askDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.state = client.Reduce(m.state, client.AskFailed{LocalID: msg.localID, ChatID: msg.chatID})
		} else {
			m.errText = ""
			m.state = client.Reduce(m.state, client.AskSucceeded{LocalID: msg.localID, Result: *msg.result})
		}
		m.refreshTimeline()
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.state = client.Reduce(m.state, client.ChatDeleted{ChatID: msg.chatID})
		if m.cursor >= len(m.state.Chats) && m.cursor > 0 {
			m.cursor--
		}
		m.refreshTimeline()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == screenLogin {
			return m.updateLogin(msg)
		}
		return m.updateChat(msg)
	}

	return m, nil
}

func (m model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.email.Focus()
			m.pass.Blur()
		} else {
			m.pass.Focus()
			m.email.Blur()
		}
		return m, nil

	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		email := strings.TrimSpace(m.email.Value())
		password := m.pass.Value()
		if email == "" || password == "" {
			m.errText = "email and password are required"
			return m, nil
		}
		m.busy = true
		m.errText = ""
		return m, m.loginCmd(email, password)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.pass, cmd = m.pass.Update(msg)
	}
	return m, cmd
}

func (m model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlN:
		m.state = client.Reduce(m.state, client.NewChatStarted{})
		m.refreshTimeline()
		return m, nil

	case msg.Type == tea.KeyCtrlL:
		return m, m.logoutCmd()

	case msg.Type == tea.KeyCtrlD:
		if len(m.state.Chats) == 0 {
			return m, nil
		}
		return m, m.deleteChatCmd(m.state.Chats[m.cursor].ID)

	case msg.Type == tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case msg.Type == tea.KeyDown:
		if m.cursor < len(m.state.Chats)-1 {
			m.cursor++
		}
		return m, nil

	case msg.Type == tea.KeyCtrlO:
		if len(m.state.Chats) == 0 {
			return m, nil
		}
		return m, m.openChatCmd(m.state.Chats[m.cursor].ID)

	case msg.Type == tea.KeyEnter:
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}
	if !m.state.Active.Open {
		m.state = client.Reduce(m.state, client.NewChatStarted{})
	}
	if !m.state.CanSubmit() {
		m.errText = "waiting for the previous reply"
		return m, nil
	}

	localID := uuid.New()
	chatID := m.state.Active.ID
	m.state = client.Reduce(m.state, client.MessageSubmitted{
		LocalID: localID,
		Content: content,
		At:      time.Now(),
	})
	m.input.SetValue("")
	m.busy = true
	m.errText = ""
	m.refreshTimeline()
	return m, m.askCmd(localID, chatID, content)
}

func (m *model) refreshTimeline() {
	if !m.ready {
		return
	}
	m.vp.Width = m.timelineWidth()
	m.vp.Height = m.timelineHeight()
	m.vp.SetContent(m.renderTimeline())
	m.vp.GotoBottom()
}

func (m model) timelineWidth() int {
	w := m.width - m.sidebarWidth() - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) timelineHeight() int {
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m model) sidebarWidth() int {
	if m.width < 80 {
		return 20
	}
	return 30
}

func (m model) renderTimeline() string {
	if len(m.state.Timeline) == 0 {
		return faintStyle.Render("No messages yet. Type below and press enter.")
	}

	var b strings.Builder
	for _, msg := range m.state.Timeline {
		label := userStyle.Render("you")
		if msg.Sender == domain.SenderBot {
			label = botStyle.Render("bot")
		}
		suffix := ""
		if msg.Pending {
			suffix = faintStyle.Render(" (sending...)")
		}
		if msg.Failed {
			suffix = errorStyle.Render(" (failed)")
		}
		b.WriteString(label + suffix + "\n")
		b.WriteString(wrap(msg.Content, m.timelineWidth()) + "\n\n")
	}
	return b.String()
}

func (m model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Chats") + "\n\n")
	if len(m.state.Chats) == 0 {
		b.WriteString(faintStyle.Render("(empty)"))
	}
	for i, chat := range m.state.Chats {
		title := "(untitled)"
		if chat.Title != nil && *chat.Title != "" {
			title = *chat.Title
		}
		title = truncate(title, m.sidebarWidth()-4)
		line := "  " + title
		if i == m.cursor {
			line = selectedStyle.Render("> " + title)
		}
		if m.state.Active.Bound() && m.state.Active.ID == chat.ID {
			line += faintStyle.Render(" *")
		}
		b.WriteString(line + "\n")
	}
	return sidebarStyle.Width(m.sidebarWidth()).Height(m.timelineHeight()).Render(b.String())
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.screen == screenLogin {
		return m.viewLogin()
	}
	return m.viewChat()
}

func (m model) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("askjejo") + "\n\n")
	b.WriteString("Sign in\n\n")
	b.WriteString(m.email.View() + "\n")
	b.WriteString(m.pass.View() + "\n")
	if m.busy {
		b.WriteString("\n" + m.spin.View() + " signing in...")
	}
	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render(m.errText))
	}
	b.WriteString(helpStyle.Render("\ntab: switch field · enter: sign in · ctrl+c: quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m model) viewChat() string {
	header := titleStyle.Render("askjejo")
	if m.user != nil {
		header += faintStyle.Render("  " + m.user.UserEmail)
	}

	status := ""
	if m.busy {
		status = " " + m.spin.View() + faintStyle.Render(" thinking...")
	}
	if m.errText != "" {
		status = " " + errorStyle.Render(m.errText)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", m.vp.View())
	help := helpStyle.Render("enter: send · ctrl+n: new chat · up/down+ctrl+o: open chat · ctrl+d: delete · ctrl+l: logout · ctrl+c: quit")

	return lipgloss.JoinVertical(lipgloss.Left, header+status, body, m.input.View(), help)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if max < 1 || len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func wrap(s string, width int) string {
	if width < 10 {
		return s
	}
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(s) {
		wl := len([]rune(word))
		if line > 0 && line+wl+1 > width {
			b.WriteString("\n")
			line = 0
		} else if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(word)
		line += wl
	}
	return b.String()
}
