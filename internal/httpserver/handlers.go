package httpserver

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/chat-transcript/internal/processor"
	"github.com/nguyentantai21042004/chat-transcript/internal/summarizer"
)

type imageResultDTO struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Dialogue string `json:"dialogue"`
	Error    string `json:"error,omitempty"`
}

type transcriptResponse struct {
	Transcript string           `json:"transcript"`
	Images     []imageResultDTO `json:"images"`
}

type reportRequest struct {
	Transcript string `json:"transcript"`
}

type reportResponse struct {
	Report string `json:"report"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toDTO(r processor.ImageResult) imageResultDTO {
	dto := imageResultDTO{Index: r.Index, Filename: r.Filename, Dialogue: r.Dialogue}
	if r.Err != nil {
		dto.Error = r.Err.Error()
	}
	return dto
}

func (s *Server) handleTranscripts(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "expected multipart form with field \"images\""})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "no images uploaded"})
		return
	}
	if len(files) > s.maxImages() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("too many images: %d > %d", len(files), s.maxImages())})
		return
	}

	images := make([]processor.ImageInput, 0, len(files))
	for _, fh := range files {
		data, err := readFormFile(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		images = append(images, processor.ImageInput{Filename: fh.Filename, Data: data})
	}
	processor.SortByFilename(images)

	batch, err := s.proc.Transcribe(c.Request.Context(), images, nil)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	resp := transcriptResponse{Transcript: batch.Transcript, Images: make([]imageResultDTO, 0, len(batch.Results))}
	for _, r := range batch.Results {
		resp.Images = append(resp.Images, toDTO(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	report, err := s.proc.Analyze(c.Request.Context(), req.Transcript)
	if err != nil {
		s.logger.Error(c.Request.Context(), "Report failed: %v", err)
		c.JSON(statusForAnalyzeError(err), errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, reportResponse{Report: report})
}

func statusForAnalyzeError(err error) int {
	switch {
	case errors.Is(err, processor.ErrEmptyTranscript):
		return http.StatusBadRequest
	case errors.Is(err, processor.ErrNoSummarizer):
		return http.StatusServiceUnavailable
	case errors.Is(err, summarizer.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}
