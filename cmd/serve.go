package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/model"
	"github.com/rheminthsimeon/melodistiq/pipeline"
	"github.com/rheminthsimeon/melodistiq/util"
	"github.com/rheminthsimeon/melodistiq/workspace"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var port int

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default $PORT or 5000)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the HTTP API",
	Long:  `Runs the HTTP API on /api/analyze, /api/analyze-audio and /api/health.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if port == 0 {
			port = constants.GetPort()
		}
		return serve(port)
	},
}

// analysis is what one upload endpoint runs once the file is on disk
type analysis func(ctx context.Context, ws *workspace.Workspace, path string) (*model.AnalysisResult, error)

type api struct {
	base     context.Context
	analyzer *pipeline.Analyzer
	logger   *slog.Logger
	workRoot string
}

// NewRouter builds the API handler. Pipelines run under base rather than the
// request context, so a client hanging up does not abort processing but
// cancelling base does.
func NewRouter(base context.Context, analyzer *pipeline.Analyzer, logger *slog.Logger, workRoot string) http.Handler {
	a := &api{base: base, analyzer: analyzer, logger: logger, workRoot: workRoot}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/health", a.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/analyze", a.upload("api.analyze", constants.MaxMidiUploadSize, constants.MidiExtensions,
		func(ctx context.Context, _ *workspace.Workspace, path string) (*model.AnalysisResult, error) {
			return a.analyzer.AnalyzeMIDI(ctx, path)
		})).Methods(http.MethodPost)
	router.HandleFunc("/api/analyze-audio", a.upload("api.analyze_audio", constants.MaxAudioUploadSize, constants.AudioExtensions,
		a.analyzer.AnalyzeAudio)).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: constants.GetCorsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	})
	return c.Handler(router)
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "healthy", Service: constants.ServiceName})
}

func (a *api) upload(name string, limit int64, exts []string, run analysis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transaction := sentry.StartTransaction(a.base, name, sentry.ContinueFromRequest(r))
		defer transaction.Finish()
		ctx := transaction.Context()

		res, err := a.process(ctx, w, r, limit, exts, run)
		if err != nil {
			status := statusFor(err)
			transaction.SetTag("status", fmt.Sprint(status))
			if status >= http.StatusInternalServerError {
				a.logger.Error("analysis failed", slog.String("endpoint", name), slog.Any("error", err))
				sentry.CaptureException(err)
			} else {
				a.logger.Info("request rejected", slog.String("endpoint", name), slog.Int("status", status), slog.Any("error", err))
			}
			writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, model.NewAnalyzeResponse(res))
	}
}

func (a *api) process(ctx context.Context, w http.ResponseWriter, r *http.Request, limit int64, exts []string, run analysis) (*model.AnalysisResult, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, fmt.Errorf("%w: maximum is %d MiB", apperrors.ErrFileTooLarge, limit>>20)
		}
		if !errors.Is(err, http.ErrNotMultipart) && !errors.Is(err, http.ErrMissingBoundary) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMissingFile, err)
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, apperrors.ErrMissingFile
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, apperrors.ErrEmptyFilename
	}
	if !util.HasExt(header.Filename, exts...) {
		return nil, fmt.Errorf("%w: expected %s", apperrors.ErrUnsupportedFormat, strings.Join(exts, ", "))
	}

	ws, err := workspace.Create(a.workRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			a.logger.Warn("workspace cleanup failed", slog.String("dir", ws.Dir), slog.Any("error", err))
		}
	}()

	path, err := ws.Save(header.Filename, file)
	if err != nil {
		return nil, err
	}
	a.logger.Info("processing upload", slog.String("workspace", ws.ID), slog.String("file", header.Filename), slog.Int64("size", header.Size))
	return run(ctx, ws, path)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNoMelodicContent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, "could not encode response: "+err.Error())
	}
}
