package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillagent/pkg/interaction"
	"github.com/jingkaihe/skillagent/pkg/presenter"
	"github.com/jingkaihe/skillagent/pkg/skills"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Inspect discovered skills",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skills",
	Long:  `List the skills found in the skill directories with their descriptions and locations.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		found, err := listSkills(cmd.Context())
		if err != nil {
			return err
		}

		entries := make([]skillEntry, len(found))
		for i, s := range found {
			entries[i] = skillEntry{Name: s.Name, Description: s.Description, Location: s.Location}
		}
		return writeSkillList(cmd.OutOrStdout(), entries, skillListOutput)
	},
}

var skillListOutput string

type skillEntry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Location    string `json:"location" yaml:"location"`
}

func writeSkillList(out io.Writer, entries []skillEntry, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return errors.Wrap(err, "failed to encode skills")
		}
		return enc.Close()
	case "table", "":
		if len(entries) == 0 {
			fmt.Fprintln(out, "No skills found")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION\tLOCATION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Description, e.Location)
		}
		return w.Flush()
	default:
		return errors.Errorf("unknown output format %q (table, json or yaml)", format)
	}
}

var skillShowCmd = &cobra.Command{
	Use:   "show <skill-name>",
	Short: "Show a skill's instructions and tools",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadSkills(cmd.Context())
		if err != nil {
			return err
		}

		for _, s := range loaded {
			if s.Name != args[0] {
				continue
			}
			built, err := buildSkills([]skills.Activated{s}, interaction.Console())
			if err != nil {
				return err
			}
			printSkill(cmd, built[0])
			return nil
		}
		return errors.Errorf("skill %q not found", args[0])
	},
}

func printSkill(cmd *cobra.Command, s skills.Skill) {
	out := cmd.OutOrStdout()
	presenter.Section(s.Name)
	fmt.Fprintf(out, "%s\n\nLocation: %s\n\n%s\n", s.Description, s.Location, s.Instructions)

	if len(s.Tools) == 0 {
		fmt.Fprintln(out, "\nTools: none")
		return
	}
	fmt.Fprintln(out, "\nTools:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, def := range s.Tools {
		fmt.Fprintf(w, "  %s\t%s\n", def.Name, def.Description)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func init() {
	skillListCmd.Flags().StringVarP(&skillListOutput, "output", "o", "table", "Output format (table, json or yaml)")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
}
