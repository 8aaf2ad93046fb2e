package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/report"
)

func (a *app) newEstimateCmd() *cobra.Command {
	flags := &jobFlags{}
	var waste, price float64
	cmd := &cobra.Command{
		Use:   "estimate [file]",
		Short: "Estimate how much roll to buy from the piece area alone",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := a.loadJob(cmd, args, flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("waste") {
				waste = a.config.WastePercent
			}
			if !cmd.Flags().Changed("price") {
				price = a.config.PricePerMeter
			}
			if job.Settings.RollWidth <= 0 {
				return fmt.Errorf("roll width must be greater than zero, got %d", job.Settings.RollWidth)
			}

			est := model.CalculateRollEstimate(job.Pieces, job.Settings.RollWidth, job.RollLength, waste, price)
			w := a.stdout
			fmt.Fprintln(w, styleTitle.Render("MATERIAL ESTIMATE: "+job.Name))
			printKeyValue(w, "Pieces", fmt.Sprintf("%d", job.PieceCount()))
			printKeyValue(w, "Piece area", report.FormatArea(est.TotalPieceArea))
			printKeyValue(w, "Minimum length", report.FormatLength(est.MinLength))
			printKeyValue(w, fmt.Sprintf("With %.0f%% waste", est.WastePercent), report.FormatLength(est.LengthWithWaste))
			if job.RollLength > 0 {
				printKeyValue(w, "Rolls", fmt.Sprintf("%d (%d without waste)", est.RollsWithWaste, est.RollsNeededMin))
			}
			if est.PricePerMeter > 0 {
				printKeyValue(w, "Estimated cost", fmt.Sprintf("%.2f", est.EstimatedCost))
			}
			printInfo(w, "Area is a lower bound; run 'rollcut plan' for the packed length.")
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&waste, "waste", 0, "waste allowance in percent (defaults to the configured one)")
	cmd.Flags().Float64Var(&price, "price", 0, "price per metre of roll")
	return cmd
}
