package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dropDatabas3/inkwell/internal/observability/logger"
)

// errorResponse estructura interna para la serialización JSON.
// Controla exactamente qué campos se envían al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja automáticamente errores de tipo *AppError y errores genéricos.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	// La causa solo va a logs, nunca al cliente.
	if appErr.HTTPStatus >= 500 && appErr.Err != nil {
		logger.L().Error("error de servidor",
			logger.String("code", appErr.Code),
			logger.Status(appErr.HTTPStatus),
			zap.Error(appErr.Err),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
