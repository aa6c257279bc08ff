package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/meur/teamforge/internal/dataset"
	"github.com/meur/teamforge/internal/logging"
	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/teams"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type recommendRequest struct {
	Pool         []string                         `json:"pool"`
	Focal        []string                         `json:"focal"`
	Mode         models.Mode                      `json:"mode"`
	Composition  string                           `json:"composition"`
	Compositions map[string]string                `json:"compositions"`
	View         teams.View                       `json:"view"`
	MaxTeams     int                              `json:"max_teams"`
	Investments  []models.UserCharacterInvestment `json:"investments"`
}

type recommendResult struct {
	teams.Recommendation
	Mode    models.Mode `json:"mode"`
	Version string      `json:"version"`
}

type handlerFunc func(context.Context, events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error)

func newHandler(ds *dataset.Dataset, logger *zap.Logger) handlerFunc {
	gen := teams.NewGenerator(ds, nil)

	return func(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		body := event.Body
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				return errResp(400, "invalid base64 body")
			}
			body = string(decoded)
		}

		var req recommendRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			return errResp(400, "invalid JSON: "+err.Error())
		}
		if len(req.Pool) == 0 {
			return errResp(400, "missing pool")
		}
		if req.Mode == "" {
			req.Mode = models.DefaultMode
		}
		if !req.Mode.Valid() {
			return errResp(400, fmt.Sprintf("unknown mode %q", req.Mode))
		}
		if req.View != "" && !req.View.Valid() {
			return errResp(400, fmt.Sprintf("unknown view %q", req.View))
		}

		roster := make(models.Roster, len(req.Investments))
		for _, inv := range req.Investments {
			if err := inv.Validate(); err != nil {
				return errResp(400, fmt.Sprintf("investment %s: %v", inv.UnitID, err))
			}
			roster[inv.UnitID] = inv
		}

		compositions := make(map[string]string, len(req.Focal)+len(req.Compositions))
		if req.Composition != "" {
			for _, id := range req.Focal {
				compositions[id] = req.Composition
			}
		}
		for id, c := range req.Compositions {
			compositions[id] = c
		}

		rec := gen.Recommend(teams.Query{
			Selected:     req.Focal,
			Pool:         req.Pool,
			Mode:         req.Mode,
			Compositions: compositions,
			View:         req.View,
			MaxTeams:     req.MaxTeams,
			Investments:  roster,
		})
		if rec.Teams == nil {
			rec.Teams = []models.GeneratedTeam{}
		}

		respJSON, err := json.Marshal(recommendResult{Recommendation: rec, Mode: req.Mode, Version: ds.Version()})
		if err != nil {
			logger.Error("Failed to encode recommendation", zap.Error(err))
			return errResp(500, "failed to encode response")
		}
		logger.Debug("Recommendation served",
			zap.Strings("focal", req.Focal),
			zap.Int("pool", len(req.Pool)),
			zap.String("mode", string(req.Mode)),
			zap.Int("teams", len(rec.Teams)))
		return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
	}
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	logger, err := logging.New(getEnv("LOG_LEVEL", "info"), false)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	path := getEnv("DATASET_PATH", "dataset.json")
	ds, err := dataset.Load(path)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.String("path", path), zap.Error(err))
	}
	logger.Info("Dataset loaded",
		zap.String("path", path),
		zap.String("version", ds.Version()),
		zap.Int("units", ds.Len()))

	lambda.Start(newHandler(ds, logger))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
