package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/example/event-simulator/internal/application"
	"github.com/example/event-simulator/internal/scheduler"
)

var (
	errBadRequestBody = errors.New("無効なリクエスト形式です。")
	errInvalidEventID = errors.New("無効なイベント ID です。")
	errBodyTooLarge   = errors.New("リクエストボディが大きすぎます。")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: defaultLogger(logger)}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var (
		vErr      *application.ValidationError
		malformed *scheduler.MalformedTimestampError
	)
	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			ErrorCode: "EVENT_NOT_FOUND",
			Message:   "指定されたイベントが見つかりません。",
		})
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "VALIDATION_FAILED",
			Message:   "入力内容に誤りがあります。",
			Errors:    localizeValidationErrors(vErr),
		})
	case errors.As(err, &malformed):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "MALFORMED_TIMESTAMP",
			Message:   "日時の形式が正しくありません。",
			Errors: map[string]string{
				malformedField(malformed): fmt.Sprintf("RFC 3339 形式の日時を指定してください: %q", malformed.Value),
			},
		})
	case errors.Is(err, application.ErrSnapshotUnavailable):
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{
			ErrorCode: "SNAPSHOT_UNAVAILABLE",
			Message:   "イベントデータを読み込めませんでした。しばらくしてから再度お試しください。",
		})
	default:
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "サーバー内部でエラーが発生しました。"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "リクエスト内容が正しくありません。"
	case http.StatusNotFound:
		return "指定されたリソースが見つかりません。"
	case http.StatusRequestEntityTooLarge:
		return "リクエストボディが大きすぎます。"
	case http.StatusUnprocessableEntity:
		return "入力内容に誤りがあります。"
	case http.StatusServiceUnavailable:
		return "サービスを利用できません。"
	default:
		return "サーバー内部でエラーが発生しました。"
	}
}

// malformedField names the offending value as kind[record].field.
func malformedField(err *scheduler.MalformedTimestampError) string {
	if err.RecordID == "" {
		return err.Kind + "." + err.Field
	}
	return fmt.Sprintf("%s[%s].%s", err.Kind, err.RecordID, err.Field)
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "event id is required":
		return "イベント ID は必須です。"
	case "locale must be a BCP 47 language tag":
		return "ロケールは BCP 47 形式の言語タグで指定してください (対応言語: " + supportedLocaleNames() + ")。"
	default:
		return message
	}
}

// supportedLocaleNames lists the locales issue texts are available in.
func supportedLocaleNames() string {
	tags := scheduler.SupportedLocales()
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.String())
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
