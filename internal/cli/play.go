package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/tideman/pkg/errors"
	pkgio "github.com/matzehuels/tideman/pkg/io"
	"github.com/matzehuels/tideman/pkg/playback"
	"github.com/matzehuels/tideman/pkg/tideman"
)

// Player styles
var (
	playPhaseStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	playCaptionStyle = lipgloss.NewStyle().Foreground(colorWhite).PaddingLeft(2)
	playDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	playDotStyle     = lipgloss.NewStyle().Foreground(colorCyan)
)

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Step through a tabulation in the terminal",
		Long: `Tabulate a ballot file and walk through it one step at a time: the ballots,
each pairwise matchup, the sorted pairs, every lock decision and the winner.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			set, err := pkgio.ImportBallots(args[0])
			if err != nil {
				return apperrors.FromTabulation(err)
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Tabulate(ctx, set)
			if err != nil {
				return apperrors.FromTabulation(err)
			}

			_, err = tea.NewProgram(newPlayModel(res), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// =============================================================================
// PlayModel - Step-through presentation
// =============================================================================

// PlayModel is the bubbletea model for the step-through player.
type PlayModel struct {
	player *playback.Player
	width  int
}

func newPlayModel(res *tideman.Result) PlayModel {
	return PlayModel{player: playback.NewPlayer(res), width: 80}
}

func (m PlayModel) Init() tea.Cmd {
	return nil
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", " ", "enter":
			m.player.Next()
		case "left", "h":
			m.player.Prev()
		case "tab", "n":
			m.player.NextPhase()
		case "r", "home":
			m.player.Reset()
		case "end":
			for m.player.Next() {
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m PlayModel) View() string {
	var b strings.Builder
	res := m.player.Result()
	f := m.player.Frame()

	title := res.Title
	if title == "" {
		title = "Ranked Pairs"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(playDimStyle.Render("←/→ step  tab next phase  r restart  q quit"))
	b.WriteString("\n\n")

	b.WriteString(phaseDots(f.Phase))
	b.WriteString("  ")
	b.WriteString(playPhaseStyle.Render(f.Phase.Title()))
	b.WriteString(playDimStyle.Render(fmt.Sprintf("  %d/%d", f.Step+1, f.Steps)))
	b.WriteString("\n\n")

	caption := f.Caption
	if f.Phase == playback.PhaseWinner {
		caption = StyleWinner.Render(caption)
	}
	b.WriteString(playCaptionStyle.Width(m.width - 2).Render(caption))
	b.WriteString("\n")

	switch f.Phase {
	case playback.PhaseSort:
		b.WriteString("\n")
		b.WriteString(lockTable(res))
		b.WriteString("\n")
	case playback.PhaseLock, playback.PhaseWinner:
		b.WriteString("\n")
		b.WriteString(m.lockedSoFar())
	}

	b.WriteString("\n")
	b.WriteString(playDimStyle.Render(fmt.Sprintf("[%d/%d]", m.player.Pos()+1, m.player.Len())))
	return b.String()
}

// lockedSoFar lists the edges decided up to and including the current frame.
func (m PlayModel) lockedSoFar() string {
	res := m.player.Result()
	locked := make(map[int]bool)
	for _, i := range m.player.Locked() {
		locked[i] = true
	}

	last := len(res.Edges) - 1
	if f := m.player.Frame(); f.Phase == playback.PhaseLock {
		last = f.Edge
	}

	var b strings.Builder
	for i := 0; i <= last; i++ {
		e := res.Edges[i]
		pair := fmt.Sprintf("%s %s %s", res.Label(e.Winner), iconArrow, res.Label(e.Loser))
		if locked[i] {
			b.WriteString("  " + styleLocked.Render(iconSuccess+" "+pair))
		} else {
			b.WriteString("  " + styleSkipped.Render(iconError+" "+pair))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// phaseDots draws one dot per phase, filled up to the current one.
func phaseDots(cur playback.Phase) string {
	var b strings.Builder
	for p := playback.PhaseBallots; p <= playback.PhaseWinner; p++ {
		if p <= cur {
			b.WriteString(playDotStyle.Render("●"))
		} else {
			b.WriteString(playDimStyle.Render("○"))
		}
	}
	return b.String()
}
