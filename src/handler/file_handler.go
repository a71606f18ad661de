package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ChallengeFileHandler struct {
	fileService *service.ChallengeFileService
}

func NewChallengeFileHandler(fileService *service.ChallengeFileService) *ChallengeFileHandler {
	return &ChallengeFileHandler{fileService: fileService}
}

func (h *ChallengeFileHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "challenge-file").Logger()
	return &l
}

type ChallengeFileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ChallengeID string `json:"challengeId"`
	Mime        string `json:"mime,omitempty"`
	Type        string `json:"type,omitempty"`
	Hash        string `json:"hash,omitempty"`
}

func challengeFileResponse(file *domain.ChallengeFile) ChallengeFileResponse {
	return ChallengeFileResponse{
		ID:          file.ID.String(),
		Name:        file.Name(),
		ChallengeID: file.ChallengeID.String(),
		Mime:        file.Mime,
		Type:        file.Type,
		Hash:        file.Hash,
	}
}

// UploadFile handles POST /challenges/:id/files with a multipart "file" part.
// Uploads beyond the size cap are rejected before the blob touches storage.
func (h *ChallengeFileHandler) UploadFile(c *gin.Context) {
	challengeID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("missing multipart file field")))
		return
	}

	if header.Size > domain.ChallengeFileMaxSize {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid,
			fmt.Errorf("upload size %d exceeds limit %d", header.Size, domain.ChallengeFileMaxSize),
			domain.WithMsg("file too large")))
		return
	}

	src, err := header.Open()
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeInternalProcess, err))
		return
	}
	defer src.Close()

	file, err := h.fileService.AttachFile(c.Request.Context(), challengeID, header.Filename, src, header.Size)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccessAndStatus(c, http.StatusCreated, challengeFileResponse(file))
}

func (h *ChallengeFileHandler) ListFiles(c *gin.Context) {
	challengeID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	files, err := h.fileService.ListFilesByChallenge(c.Request.Context(), challengeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]ChallengeFileResponse, 0, len(files))
	for _, file := range files {
		responses = append(responses, challengeFileResponse(file))
	}
	respondWithSuccess(c, responses)
}

// RefreshFileInfo handles POST /files/:id/refresh, re-running introspection
// for blobs that were not readable when the row was created.
func (h *ChallengeFileHandler) RefreshFileInfo(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, err := h.fileService.RefreshFileInfo(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, challengeFileResponse(file))
}

func (h *ChallengeFileHandler) DeleteFile(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, gin.H{"deleted": id.String()})
}
