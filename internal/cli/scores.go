package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/cybersnake/internal/model"
)

func newScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := apiClient.Leaderboard(cmd.Context())
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(entries)
			return nil
		},
	}
}

func newCheckNameCmd() *cobra.Command {
	var name, pass string

	cmd := &cobra.Command{
		Use:   "check-name",
		Short: "Check whether a name is free or owned by a password",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := resolveCredential(name, pass)
			if err != nil {
				return err
			}

			result, err := apiClient.CheckName(cmd.Context(), cred.Name, cred.Password)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(CheckNameResult{Name: cred.Name, Result: result})
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (default: saved credentials)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (default: saved credentials)")

	return cmd
}

func newSubmitCmd() *cobra.Command {
	var name, pass string
	var score int
	var save bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a score",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := resolveCredential(name, pass)
			if err != nil {
				return err
			}

			entry, err := apiClient.SubmitScore(cmd.Context(), cred.Name, cred.Password, score)
			if err != nil {
				if errors.Is(err, model.ErrCredentialMismatch) {
					return fmt.Errorf("%s is registered with a different password", cred.Name)
				}
				return err
			}

			if save {
				if err := cfg.Credentials().Save(cred); err != nil {
					return fmt.Errorf("failed to save credentials: %w", err)
				}
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(entry)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (default: saved credentials)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (default: saved credentials)")
	cmd.Flags().IntVar(&score, "score", 0, "Score to submit (required)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the credentials for later commands")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

// resolveCredential fills whichever of name and pass is empty from the
// saved credentials
func resolveCredential(name, pass string) (model.Credential, error) {
	cred := model.Credential{Name: name, Password: pass}
	if cred.IsComplete() {
		return cred, nil
	}

	saved, ok, err := cfg.Credentials().Load()
	if err != nil {
		return cred, fmt.Errorf("failed to load credentials: %w", err)
	}
	if ok {
		if cred.Name == "" {
			cred.Name = saved.Name
		}
		if cred.Password == "" {
			cred.Password = saved.Password
		}
	}
	if !cred.IsComplete() {
		return cred, fmt.Errorf("--name and --pass are required when no credentials are saved")
	}
	return cred, nil
}
