package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	cl "finfun/internal/cli"
	"finfun/internal/config"
	"finfun/internal/sim"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
	frameStyle  = lipgloss.NewStyle().Padding(1, 2)
)

type tickMsg time.Time

type playModel struct {
	session *sim.Session
	cfg     sim.Config
	bar     progress.Model

	paused bool
	status string
}

func newPlayModel(session *sim.Session, cfg sim.Config) playModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 50
	return playModel{session: session, cfg: cfg, bar: bar}
}

func (m playModel) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m playModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.paused {
			m.session.Tick()
		}
		if m.session.Ended() {
			return m, tea.Quit
		}
		return m, m.tickCmd()

	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > 70 {
			width = 70
		}
		if width > 10 {
			m.bar.Width = width
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m playModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p":
		m.paused = !m.paused
		if m.paused {
			m.status = "Paused."
		} else {
			m.status = "Resumed."
		}
	case "i":
		if policy, err := m.session.PurchaseInsurance(10); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("Insured for 10 years at %s/month.", formatDollars(policy.MonthlyPremiumMicros))
		}
	case "c":
		if err := m.session.CancelInsurance(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "Insurance cancelled."
		}
	case "f":
		if txn, err := m.session.PurchaseDeposit(10_000*sim.MicrosPerDollar, 2); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("Opened a 2-year fixed deposit of %s.", formatDollars(txn.AmountMicros))
		}
	case "b":
		if txn, err := m.session.BreakDeposit(); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("Broke the fixed deposit; paid a %s penalty.", formatDollars(txn.AmountMicros))
		}
	case "1":
		m.status = m.buyStatus("NOVATK")
	case "2":
		m.status = m.buyStatus("HARVST")
	case "3":
		m.status = m.sellStatus("NOVATK")
	case "4":
		m.status = m.sellStatus("HARVST")
	}
	return m, nil
}

func (m playModel) buyStatus(symbol string) string {
	txn, err := m.session.BuyStock(symbol, 10)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Bought 10 %s for %s.", symbol, formatDollars(txn.AmountMicros))
}

func (m playModel) sellStatus(symbol string) string {
	txn, err := m.session.SellStock(symbol)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Sold %s for %s.", symbol, formatDollars(txn.AmountMicros))
}

func (m playModel) View() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("FinFun") + "  " + labelStyle.Render(snap.Profile.Name))
	if m.paused {
		b.WriteString("  " + statusStyle.Render("[paused]"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.bar.ViewAs(snap.RealTimeElapsed/m.cfg.GameDuration) + "\n")
	b.WriteString(labelStyle.Render("Time left   ") + valueStyle.Render(snap.TimeLeftReadable) + "\n")
	b.WriteString(labelStyle.Render("Balance     ") + valueStyle.Render(formatDollars(snap.BalanceMicros)) + "\n")

	if snap.Insurance != nil {
		b.WriteString(labelStyle.Render("Insurance   ") +
			fmt.Sprintf("%d years at %s/month\n", snap.Insurance.CoverageYears, formatDollars(snap.Insurance.MonthlyPremiumMicros)))
	}
	if snap.Deposit != nil {
		b.WriteString(labelStyle.Render("Deposit     ") +
			fmt.Sprintf("%s at %d%% for %d years\n", formatDollars(snap.Deposit.PrincipalMicros), snap.Deposit.RatePct, snap.Deposit.Years))
	}

	b.WriteString("\n")
	for _, q := range snap.Stocks {
		arrow := upStyle.Render(fmt.Sprintf("▲ %d%%", q.MagnitudePct))
		if q.Direction == sim.TrendDown {
			arrow = downStyle.Render(fmt.Sprintf("▼ %d%%", q.MagnitudePct))
		}
		held := ""
		if q.Held {
			held = fmt.Sprintf("  (holding %d)", q.Shares)
		}
		b.WriteString(fmt.Sprintf("%-8s %10s  %s%s\n", q.Symbol, formatDollars(q.EffectivePriceMicros), arrow, held))
	}

	for _, e := range snap.LifeEvents {
		if !e.Occurred {
			continue
		}
		line := fmt.Sprintf("%s struck the %s", e.Title, e.Target)
		if e.CoveredByInsurance {
			line += ", covered by insurance"
		} else {
			line += ", cost " + formatDollars(e.CostMicros)
		}
		b.WriteString(downStyle.Render("! ") + line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("p pause  i insure  c cancel  f deposit  b break  1/2 buy  3/4 sell  q quit"))

	return frameStyle.Render(b.String())
}

func runPlay(cliCfg config.CLIConfig, profile sim.Profile) error {
	cfg := sim.DefaultConfig()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	session, err := sim.NewSession(profile, cfg, rng, nil)
	if err != nil {
		return err
	}

	program := tea.NewProgram(newPlayModel(session, cfg))
	if _, err := program.Run(); err != nil {
		return err
	}

	verdict, ok := session.Verdict()
	if !ok {
		printWarn("Game abandoned.")
		return nil
	}

	fmt.Println()
	if verdict.Won {
		printSuccess("You made it through 50 years!")
	} else {
		printError("Bankrupt. The bills won this time.")
	}
	printInfo(fmt.Sprintf("Final balance: %s", formatDollars(verdict.FinalBalanceMicros)))
	printInfo(fmt.Sprintf("Earned %s, spent %s over the run.",
		formatDollars(verdict.EarnedMicros), formatDollars(verdict.SpentMicros)))

	if cliCfg.APIBaseURL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = cl.NewClient(cliCfg.APIBaseURL).SubmitResult(ctx,
		uuid.NewString(), profile.Name, string(verdict.Reason), verdict.FinalBalanceMicros)
	if err != nil {
		printWarn("Could not submit your result: " + err.Error())
		return nil
	}
	printSuccess("Result submitted to the leaderboard.")
	return nil
}
