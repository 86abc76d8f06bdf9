package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"supportrag/internal/app"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed support pages",
	Long: `With a question argument, prints one answer and exits.
Without one, starts an interactive session; type 'exit' or 'quit' to leave.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

type answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	svc := app.NewRetrieval(cfg, deps)

	if len(args) == 1 {
		answer, err := svc.Answer(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	}

	labels := plainLabels(cfg.SupportBrand)
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		labels = styledLabels(cfg.SupportBrand)
	}
	return askLoop(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), svc, labels)
}

type chatLabels struct {
	Intro string
	You   string
	Bot   string
}

func plainLabels(brand string) chatLabels {
	return chatLabels{
		Intro: fmt.Sprintf("Ask the %s AI Support Agent (type 'exit' to quit):", brand),
		You:   "You: ",
		Bot:   fmt.Sprintf("%s AI: ", brand),
	}
}

func styledLabels(brand string) chatLabels {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	you := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	bot := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

	plain := plainLabels(brand)
	return chatLabels{
		Intro: muted.Render(plain.Intro),
		You:   you.Render(strings.TrimSpace(plain.You)) + " ",
		Bot:   bot.Render(strings.TrimSpace(plain.Bot)) + " ",
	}
}

// askLoop reads one question per line until exit, quit or EOF. The first
// pipeline error ends the session.
func askLoop(ctx context.Context, in io.Reader, out io.Writer, a answerer, labels chatLabels) error {
	fmt.Fprintf(out, "\n%s\n", labels.Intro)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "\n%s", labels.You)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "exit", "quit":
			return nil
		case "":
			continue
		}

		answer, err := a.Answer(ctx, question)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s%s\n", labels.Bot, answer)
	}
}
