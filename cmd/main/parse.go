package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"vadimgribanov.com/tg-reminder/internal/metrics"
	"vadimgribanov.com/tg-reminder/internal/parser"
)

type parseOutput struct {
	Text              string `yaml:"text"`
	Time              string `yaml:"time"`
	Recurrence        string `yaml:"recurrence"`
	Weekday           int    `yaml:"weekday,omitempty"`
	DayOfMonth        int    `yaml:"day_of_month,omitempty"`
	NextOccurrence    string `yaml:"next_occurrence"`
	Email             string `yaml:"email,omitempty"`
	DisplayTime       string `yaml:"display_time"`
	DisplayRecurrence string `yaml:"display_recurrence,omitempty"`
}

func newParseCmd() *cobra.Command {
	var nowFlag string
	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Print how a reminder message would be understood",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if nowFlag != "" {
				var err error
				now, err = time.Parse(time.RFC3339, nowFlag)
				if err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
			}

			parsed, err := parser.Parse(strings.Join(args, " "), now)
			if err != nil {
				return err
			}
			return writeParsed(cmd.OutOrStdout(), parsed)
		},
	}
	cmd.Flags().StringVar(&nowFlag, "now", "", "Reference time in RFC 3339 (default: current time)")
	return cmd
}

func writeParsed(w io.Writer, parsed parser.ParsedReminder) error {
	out := parseOutput{
		Text:              parsed.Text,
		Time:              parsed.Clock.String(),
		Recurrence:        metrics.RecurrenceLabel(string(parsed.Recurrence.Type)),
		Weekday:           parsed.Recurrence.Weekday,
		DayOfMonth:        parsed.Recurrence.DayOfMonth,
		NextOccurrence:    parsed.NextOccurrence.Format(time.RFC3339),
		Email:             parsed.Email,
		DisplayTime:       parsed.DisplayTime,
		DisplayRecurrence: parsed.DisplayRecurrence,
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return encoder.Close()
}
