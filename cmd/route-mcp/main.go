package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gilby125/airport-routes/api"
	"github.com/gilby125/airport-routes/bootstrap"
	"github.com/gilby125/airport-routes/config"
	"github.com/gilby125/airport-routes/pkg/buildinfo"
	"github.com/gilby125/airport-routes/pkg/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so logs go to stderr.
	logger.SetDefault(logger.NewWithWriter(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	}, os.Stderr))

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing route data: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	s := server.NewMCPServer(
		"airport-routes-mcp",
		buildinfo.Version,
		server.WithLogging(),
	)
	s.AddTool(shortestRouteTool(), shortestRouteHandler(app.Service))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}

func shortestRouteTool() mcp.Tool {
	return mcp.NewTool("shortest_route",
		mcp.WithDescription("Find the shortest flight route between two airports, using at most four flights"),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Departure airport code (e.g., TLL or EETN)"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Arrival airport code (e.g., TPE or RCTP)"),
		),
		mcp.WithString("code_system",
			mcp.Description("Code system of from and to: 'iata' (default) or 'icao'"),
		),
	)
}

type routeResult struct {
	From         string   `json:"from"`
	To           string   `json:"to"`
	CodeSystem   string   `json:"code_system"`
	AirportCodes []string `json:"airportCodes"`
	RouteLength  string   `json:"routeLength"`
}

func shortestRouteHandler(svc *api.ShortestRouteService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("Invalid arguments format"), nil
		}

		from, _ := argsMap["from"].(string)
		to, _ := argsMap["to"].(string)
		systemStr, _ := argsMap["code_system"].(string)
		if systemStr == "" {
			systemStr = string(api.CodeSystemIATA)
		}

		system, err := api.ParseCodeSystem(systemStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid code_system: %s", systemStr)), nil
		}

		data, err := svc.Shortest(ctx, system, from, to)
		if err != nil {
			var apiErr *api.Error
			if errors.As(err, &apiErr) {
				return mcp.NewToolResultError(apiErr.Message), nil
			}
			return mcp.NewToolResultError("Something went wrong!"), nil
		}

		jsonBytes, err := json.MarshalIndent(routeResult{
			From:         api.NormalizeCode(from),
			To:           api.NormalizeCode(to),
			CodeSystem:   string(system),
			AirportCodes: data.AirportCodes,
			RouteLength:  data.RouteLength,
		}, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error marshaling response: %v", err)), nil
		}

		return mcp.NewToolResultText(string(jsonBytes)), nil
	}
}
