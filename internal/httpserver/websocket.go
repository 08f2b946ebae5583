package httpserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nguyentantai21042004/chat-transcript/internal/processor"
)

const (
	wsTypeImage      = "image"
	wsTypeReset      = "reset"
	wsTypeTranscribe = "transcribe"
	wsTypeAnalyze    = "analyze"

	wsTypeQueued     = "queued"
	wsTypeProgress   = "progress"
	wsTypeTranscript = "transcript"
	wsTypeReport     = "report"
	wsTypeError      = "error"

	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMessage is used in both directions.
type wsMessage struct {
	Type     string `json:"type"`
	Filename string `json:"filename,omitempty"`
	Data     string `json:"data,omitempty"`
	Text     string `json:"text,omitempty"`
	Done     int    `json:"done,omitempty"`
	Total    int    `json:"total,omitempty"`
	Error    string `json:"error,omitempty"`
}

// wsSession buffers uploaded screenshots until the client asks for a run.
// Only the read loop goroutine writes to the connection.
type wsSession struct {
	s      *Server
	conn   *websocket.Conn
	images []processor.ImageInput
}

func (s *Server) handleAnalyzeWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// base64 inflates payloads by a third
	conn.SetReadLimit(int64(s.maxUploadBytes()) * 4 / 3)

	sess := &wsSession{s: s, conn: conn}
	sess.run(c.Request.Context())
}

func (ws *wsSession) run(ctx context.Context) {
	for {
		var msg wsMessage
		if err := ws.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ws.s.logger.Warn(ctx, "WebSocket read error: %v", err)
			}
			return
		}

		var err error
		switch msg.Type {
		case wsTypeImage:
			err = ws.addImage(msg)
		case wsTypeReset:
			ws.images = nil
			err = ws.send(wsMessage{Type: wsTypeQueued, Total: 0})
		case wsTypeTranscribe:
			err = ws.runBatch(ctx, false)
		case wsTypeAnalyze:
			err = ws.runBatch(ctx, true)
		default:
			err = ws.send(wsMessage{Type: wsTypeError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		}
		if err != nil {
			ws.s.logger.Warn(ctx, "WebSocket write error: %v", err)
			return
		}
	}
}

func (ws *wsSession) addImage(msg wsMessage) error {
	if len(ws.images) >= ws.s.maxImages() {
		return ws.send(wsMessage{Type: wsTypeError, Error: fmt.Sprintf("too many images (max %d)", ws.s.maxImages())})
	}
	data, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil || len(data) == 0 {
		return ws.send(wsMessage{Type: wsTypeError, Filename: msg.Filename, Error: "image data must be non-empty base64"})
	}
	ws.images = append(ws.images, processor.ImageInput{Filename: msg.Filename, Data: data})
	return ws.send(wsMessage{Type: wsTypeQueued, Filename: msg.Filename, Total: len(ws.images)})
}

// runBatch transcribes the buffered images, streaming progress, and
// optionally requests the report. The buffer is cleared afterwards.
func (ws *wsSession) runBatch(ctx context.Context, withReport bool) error {
	if len(ws.images) == 0 {
		return ws.send(wsMessage{Type: wsTypeError, Error: "no images queued"})
	}
	images := ws.images
	ws.images = nil
	processor.SortByFilename(images)

	var writeErr error
	batch, err := ws.s.proc.Transcribe(ctx, images, func(done, total int, r processor.ImageResult) {
		if writeErr != nil {
			return
		}
		msg := wsMessage{Type: wsTypeProgress, Filename: r.Filename, Done: done, Total: total}
		if r.Err != nil {
			msg.Error = r.Err.Error()
		}
		writeErr = ws.send(msg)
	})
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		return ws.send(wsMessage{Type: wsTypeError, Error: err.Error()})
	}
	if err := ws.send(wsMessage{Type: wsTypeTranscript, Text: batch.Transcript}); err != nil {
		return err
	}
	if !withReport {
		return nil
	}

	report, err := ws.s.proc.Analyze(ctx, batch.Transcript)
	if err != nil {
		return ws.send(wsMessage{Type: wsTypeError, Error: err.Error()})
	}
	return ws.send(wsMessage{Type: wsTypeReport, Text: report})
}

func (ws *wsSession) send(msg wsMessage) error {
	ws.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return ws.conn.WriteJSON(msg)
}
