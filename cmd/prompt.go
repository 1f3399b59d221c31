package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/spigell/skills-matcher/internal/matching"
	"github.com/spigell/skills-matcher/internal/report"
)

const (
	PromptDone                = "Done"
	PromptBack                = "back"
	PromptRankingToFile       = "Write ranking to file"
	PromptAppendToExcludeFile = "Append listed candidates to exclude file"
	PromptEmailRecipients     = "Pick email recipients"
	PromptPrintRecipients     = "Print recipients"
)

var errExit = errors.New("exit requested")

// prompter asks the user what to do with a ranking.
type prompter interface {
	Select(label string, items []string) (string, error)
	Input(label, defaultValue string) (string, error)
}

type terminalPrompter struct{}

func (terminalPrompter) Select(label string, items []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}

	_, selected, err := prompt.Run()
	return selected, err
}

func (terminalPrompter) Input(label, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}
	return prompt.Run()
}

// ranking is what the interactive actions work on.
type ranking struct {
	table  *matching.Table
	config *Config
	opts   report.Options
	out    io.Writer
}

func interact(p prompter, r *ranking, log *zap.Logger) error {
	for {
		items := []string{PromptDone, PromptRankingToFile, PromptEmailRecipients}
		if strings.TrimSpace(r.config.ExcludeFile) != "" {
			items = append(items, PromptAppendToExcludeFile)
		}

		action, err := p.Select("Proceed?", items)
		if err != nil {
			return err
		}

		if err := handleAction(action, p, r, log); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func handleAction(action string, p prompter, r *ranking, log *zap.Logger) error {
	switch action {
	case PromptDone:
		log.Info("exiting", zap.String("reason", "done from prompt"))
		return errExit
	case PromptRankingToFile:
		path, err := p.Input("File name", defaultReportFile(r.config))
		if err != nil {
			return err
		}
		return writeReportFile(strings.TrimSpace(path), r, log)
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(r.config.ExcludeFile, r.table, log)
	case PromptEmailRecipients:
		return pickRecipients(p, r)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func defaultReportFile(config *Config) string {
	if file := strings.TrimSpace(config.Output.File); file != "" {
		return file
	}

	switch config.Output.Format {
	case report.FormatCSV, report.FormatJSON:
		return "ranking." + config.Output.Format
	default:
		return "ranking.txt"
	}
}

// pickRecipients toggles candidates in and out of the recipient list until
// the list is printed or the user goes back.
func pickRecipients(p prompter, r *ranking) error {
	selected := map[string]bool{}

	for {
		items := []string{PromptPrintRecipients}
		byLabel := make(map[string]string, r.table.Len())
		for _, rec := range r.table.Rows {
			label := candidateLabel(rec, r.config.Columns.Email)
			if selected[rec.Candidate.ID] {
				label += " [selected]"
			}
			byLabel[label] = rec.Candidate.ID
			items = append(items, label)
		}

		choice, err := p.Select("Choose candidates and press ENTER", append(items, PromptBack))
		if err != nil {
			return err
		}

		switch choice {
		case PromptBack:
			return nil
		case PromptPrintRecipients:
			ids := make([]string, 0, len(selected))
			for id, ok := range selected {
				if ok {
					ids = append(ids, id)
				}
			}
			fmt.Fprintln(r.out, report.Recipients(r.table, ids, r.config.Columns.Email))
			return nil
		default:
			id, ok := byLabel[choice]
			if !ok {
				return fmt.Errorf("there is no such candidate %q", choice)
			}
			selected[id] = !selected[id]
		}
	}
}

func candidateLabel(rec *matching.ScoreRecord, emailColumn string) string {
	label := fmt.Sprintf("%s %.2f", rec.Candidate.ID, rec.Final)
	if name, _ := rec.Candidate.Attribute("name"); name != "" {
		label += " " + name
	}
	if email, _ := rec.Candidate.Attribute(emailColumn); email != "" {
		label += " <" + email + ">"
	}
	return label
}
