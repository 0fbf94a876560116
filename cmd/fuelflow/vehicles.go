package main

import (
	"fmt"

	"github.com/fleetops/fuelflow/internal/cli"
	"github.com/fleetops/fuelflow/internal/model"
	"github.com/spf13/cobra"
)

func vehiclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Manage the fleet vehicle directory",
	}

	cmd.AddCommand(vehiclesListCmd())
	cmd.AddCommand(vehiclesAddCmd())
	cmd.AddCommand(vehiclesDeactivateCmd())

	return cmd
}

func vehiclesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active fleet vehicles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			vehicles, err := store.ActiveVehicles(cmd.Context())
			if err != nil {
				return err
			}

			if len(vehicles) == 0 {
				fmt.Println(cli.FormatWarning("No active vehicles - add one with 'fuelflow vehicles add'"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Fleet Vehicles"))
			for _, v := range vehicles {
				fmt.Printf("%-12s %-30s odometer %d\n", v.ID, v.DisplayName(), v.Odometer)
			}
			return nil
		},
	}
}

func vehiclesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a fleet vehicle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			tag, _ := cmd.Flags().GetString("tag")
			vMake, _ := cmd.Flags().GetString("make")
			vModel, _ := cmd.Flags().GetString("model")
			year, _ := cmd.Flags().GetInt("year")
			odometer, _ := cmd.Flags().GetInt64("odometer")

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			vehicle := &model.Vehicle{
				ID:       id,
				AssetTag: tag,
				Make:     vMake,
				Model:    vModel,
				Year:     year,
				Odometer: odometer,
				Active:   true,
			}

			if err := store.SaveVehicle(cmd.Context(), vehicle); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved vehicle %s", vehicle.DisplayName())))
			return nil
		},
	}

	cmd.Flags().String("id", "", "vehicle id (required)")
	cmd.Flags().String("tag", "", "asset tag as printed on fuel cards (required)")
	cmd.Flags().String("make", "", "vehicle make")
	cmd.Flags().String("model", "", "vehicle model")
	cmd.Flags().Int("year", 0, "model year")
	cmd.Flags().Int64("odometer", 0, "last known odometer reading")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}

func vehiclesDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <vehicle-id>",
		Short: "Remove a vehicle from the active fleet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivateVehicle(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deactivated vehicle %s", args[0])))
			return nil
		},
	}
}
