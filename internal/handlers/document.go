package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"walletd/internal/handlers/render"
	"walletd/internal/handlers/userctx"
	"walletd/internal/logger"
	"walletd/internal/models"
)

type documentJSON struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toDocumentJSON(d models.Document) documentJSON {
	return documentJSON{
		ID:        d.ID,
		Name:      d.Name,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDocumentsJSON(ds []models.Document) []documentJSON {
	documents := make([]documentJSON, 0, len(ds))
	for _, d := range ds {
		documents = append(documents, toDocumentJSON(d))
	}
	return documents
}

func handleListDocuments(documentService documentService, l logger.Logger) http.Handler {
	type response struct {
		Documents []documentJSON `json:"documents"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		documents, err := documentService.List(r.Context(), user.ID)

		switch err {
		case nil:
			render.JSON(w, response{Documents: toDocumentsJSON(documents)})
		default:
			l.Error("Failed to list documents", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleGenerateDocument(documentService documentService, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required,min=1,max=200"`
	}
	type response struct {
		Document documentJSON `json:"document"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		document, err := documentService.Generate(r.Context(), user.ID, data.Name)

		switch err {
		case nil:
			render.JSONWithStatus(w, response{Document: toDocumentJSON(document)}, http.StatusCreated)
		default:
			l.Error("Failed to generate document", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
