package cmd

import (
	"encoding/json"

	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/response"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "Print the seed slot list the server starts with",
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := repository.NewSlotRepository(repository.DefaultSlots(), zap.NewNop())
			if err != nil {
				return err
			}

			all := slots.ListAll(cmd.Context())
			out := make([]response.SlotResponse, len(all))
			for i, slot := range all {
				out[i] = response.SlotToResponse(slot)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
