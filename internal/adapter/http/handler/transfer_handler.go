package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/memledger/internal/adapter/http/dto"
	"github.com/iho/memledger/internal/domain"
	"github.com/iho/memledger/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.TransferResult, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create moves money between two accounts. Both a committed and an
// internally failed transfer answer 200; the body tells them apart.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, r, err, http.StatusBadRequest)
		return
	}

	result, err := h.transferUC.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		// a missing party is a bad request, not a missing resource
		if errors.Is(err, domain.ErrAccountNotFound) {
			status = http.StatusBadRequest
		}
		writeDomainError(w, r, err, status)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(result))
}
