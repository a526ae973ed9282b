package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"waste-route-service/internal/adapters/export"
	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/domain"
	"waste-route-service/internal/services"
)

type optimizeOptions struct {
	requestsPath string
	vehiclesPath string
	geojsonRoute int
}

// newOptimizeCmd runs the optimizer offline on JSON files and prints the plan.
func newOptimizeCmd(opts *rootOptions) *cobra.Command {
	o := &optimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Plan routes for requests and vehicles read from JSON files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			optimizerOpts, err := services.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}

			var reqDTOs []dto.ServiceRequestDTO
			if err := readJSON(o.requestsPath, &reqDTOs); err != nil {
				return err
			}
			var vehicleDTOs []dto.VehicleDTO
			if err := readJSON(o.vehiclesPath, &vehicleDTOs); err != nil {
				return err
			}

			requests := make([]domain.ServiceRequest, 0, len(reqDTOs))
			for _, r := range reqDTOs {
				requests = append(requests, r.ToDomain())
			}
			vehicles := make([]domain.Vehicle, 0, len(vehicleDTOs))
			for _, v := range vehicleDTOs {
				vehicles = append(vehicles, v.ToDomain())
			}

			res, err := services.NewOptimizer(optimizerOpts).Optimize(cmd.Context(), requests, vehicles, nil)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if cmd.Flags().Changed("geojson") {
				route, ok := res.Route(o.geojsonRoute)
				if !ok {
					return fmt.Errorf("route %d not in plan", o.geojsonRoute)
				}
				return enc.Encode(export.RouteGeoJSON(route))
			}
			return enc.Encode(dto.FromPlan(res))
		},
	}

	cmd.Flags().StringVar(&o.requestsPath, "requests", "", "JSON array of service requests")
	cmd.Flags().StringVar(&o.vehiclesPath, "vehicles", "", "JSON array of vehicles")
	cmd.Flags().IntVar(&o.geojsonRoute, "geojson", 0, "print only this route as GeoJSON")
	_ = cmd.MarkFlagRequired("requests")
	_ = cmd.MarkFlagRequired("vehicles")
	return cmd
}

func readJSON(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}
	return nil
}
