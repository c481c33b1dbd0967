// Package devserver is a local stand-in for the document processing server.
// It accepts multipart batches, reports task state through the status
// endpoint, and serves the uploaded files back as a zip once "processed".
package devserver

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ytget/batch-uploader/internal/model"
)

// Defaults
const (
	DefaultPendingPolls = 2
	DefaultMaxMemory    = 32 << 20
	FieldName           = "files[]"
	ProgressState       = "PROGRESS"
)

// Config controls how simulated tasks behave
type Config struct {
	PendingPolls int   // status polls answered with a non-terminal state before the task finishes
	Fail         bool  // finish tasks with FAILURE instead of SUCCESS
	MaxMemory    int64 // multipart memory limit
	AccessLog    bool  // log every request through gin's logger
}

// StoredFile is an uploaded file kept in memory
type StoredFile struct {
	Name string
	Data []byte
}

// Task is the server-side record of a submitted batch
type Task struct {
	ID        string
	RequestID string
	Files     []StoredFile
	Polls     int
	State     model.TaskState
	CreatedAt time.Time
}

// Server holds tasks in memory and serves the three widget endpoints
type Server struct {
	cfg    Config
	engine *gin.Engine

	tasksMutex sync.RWMutex
	tasks      map[string]*Task
}

// New creates a dev server with routes registered
func New(cfg Config) *Server {
	if cfg.PendingPolls < 0 {
		cfg.PendingPolls = 0
	}
	if cfg.MaxMemory <= 0 {
		cfg.MaxMemory = DefaultMaxMemory
	}

	s := &Server{
		cfg:   cfg,
		tasks: make(map[string]*Task),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.AccessLog {
		r.Use(gin.Logger())
	}
	r.MaxMultipartMemory = cfg.MaxMemory
	s.setupRoutes(r)
	s.engine = r

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until the process exits
func (s *Server) Run(addr string) error {
	log.Printf("Dev server listening on %s (pending polls=%d, fail=%v)", addr, s.cfg.PendingPolls, s.cfg.Fail)
	return s.engine.Run(addr)
}

// Task returns a copy of the task record with the given id
func (s *Server) Task(id string) (Task, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return Task{}, false
	}
	return *task, true
}

// TaskCount returns the number of submitted batches
func (s *Server) TaskCount() int {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return len(s.tasks)
}

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/process", s.processHandler)
	r.GET("/status/:id", s.statusHandler)
	r.GET("/download/:id", s.downloadHandler)
}

func (s *Server) processHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}

	headers := form.File[FieldName]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}
	if headers[0].Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}

	files := make([]StoredFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("An error occurred while processing the file %s", fh.Filename)})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("An error occurred while processing the file %s", fh.Filename)})
			return
		}
		files = append(files, StoredFile{Name: fh.Filename, Data: data})
	}

	task := &Task{
		ID:        uuid.NewString(),
		RequestID: c.GetHeader("X-Request-ID"),
		Files:     files,
		State:     model.TaskStatePending,
		CreatedAt: time.Now(),
	}

	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	s.tasksMutex.Unlock()

	log.Printf("Dev server accepted task %s with %d file(s)", task.ID, len(files))
	c.JSON(http.StatusAccepted, gin.H{"task_id": task.ID})
}

func (s *Server) statusHandler(c *gin.Context) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[c.Param("id")]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !task.State.IsTerminal() {
		task.Polls++
		if task.Polls > s.cfg.PendingPolls {
			if s.cfg.Fail {
				task.State = model.TaskStateFailure
			} else {
				task.State = model.TaskStateSuccess
			}
		}
	}

	switch task.State {
	case model.TaskStateSuccess:
		result := make([]gin.H, 0, len(task.Files))
		for _, f := range task.Files {
			result = append(result, gin.H{"file": f.Name, "bytes": len(f.Data)})
		}
		c.JSON(http.StatusOK, gin.H{"state": task.State, "status": "Task completed", "result": result})
	case model.TaskStateFailure:
		c.JSON(http.StatusOK, gin.H{"state": task.State, "status": "Processing failed"})
	default:
		if task.Polls <= 1 {
			c.JSON(http.StatusOK, gin.H{"state": model.TaskStatePending, "status": "Pending..."})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"state":  ProgressState,
			"status": fmt.Sprintf("Processing %d/%d", task.Polls-1, s.cfg.PendingPolls),
		})
	}
}

func (s *Server) downloadHandler(c *gin.Context) {
	s.tasksMutex.RLock()
	task, exists := s.tasks[c.Param("id")]
	var files []StoredFile
	var state model.TaskState
	if exists {
		files = task.Files
		state = task.State
	}
	s.tasksMutex.RUnlock()

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if state != model.TaskStateSuccess {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task not completed"})
		return
	}

	archive, err := zipFiles(files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Output file not found"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", task.ID+".zip"))
	c.Data(http.StatusOK, "application/zip", archive)
}

func zipFiles(files []StoredFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(path.Base(f.Name))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
