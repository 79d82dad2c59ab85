package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/frahmantamala/futsal-booking/internal/auth"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/spf13/cobra"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions [role]",
	Short: "Print the role permission table",
	Long:  `Print which booking transitions and payment actions each role may request`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roles := user.AllRoles()
		if len(args) == 1 {
			role, err := user.ParseRole(args[0])
			if err != nil {
				return err
			}
			roles = []user.Role{role}
		}
		return writePermissions(cmd.OutOrStdout(), roles)
	},
}

func writePermissions(out io.Writer, roles []user.Role) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tBOOKING TRANSITIONS\tPAYMENT ACTIONS")
	for _, role := range roles {
		var transitions []string
		for _, t := range auth.RoleTransitions(role) {
			transitions = append(transitions, fmt.Sprintf("%s->%s", t.From, t.To))
		}
		var actions []string
		for _, a := range auth.RolePaymentActions(role) {
			actions = append(actions, string(a))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", role, orDash(transitions), orDash(actions))
	}
	return tw.Flush()
}

func orDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
