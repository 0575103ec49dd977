package server

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/hrcopilot/resume-tracker/constants"
)

// UploadResponse reports per-file results for a batch upload without waiting
// for extraction to finish.
type UploadResponse struct {
	Message        string       `json:"message"`
	UploadedFiles  []string     `json:"uploaded_files"`
	FailedFiles    []FileResult `json:"failed_files"`
	TotalProcessed int          `json:"total_processed"`
}

type FileResult struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid multipart form"})
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.writeJSON(w, http.StatusOK, UploadResponse{
			Message:       "no files received",
			UploadedFiles: []string{},
			FailedFiles:   []FileResult{},
		})
		return
	}

	resp := UploadResponse{
		UploadedFiles:  []string{},
		FailedFiles:    []FileResult{},
		TotalProcessed: len(files),
	}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			resp.FailedFiles = append(resp.FailedFiles, FileResult{Filename: fh.Filename, Error: "could not read upload"})
			continue
		}
		_, err = s.ingest.UploadResume(r.Context(), fh.Filename, f)
		_ = f.Close()
		if err != nil {
			resp.FailedFiles = append(resp.FailedFiles, FileResult{Filename: fh.Filename, Error: err.Error()})
			continue
		}
		resp.UploadedFiles = append(resp.UploadedFiles, fh.Filename)
	}
	resp.Message = fmt.Sprintf("processed %d files, %d accepted, %d failed",
		resp.TotalProcessed, len(resp.UploadedFiles), len(resp.FailedFiles))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResumeContent(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := s.ingest.Status(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleResumeDownload(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if constants.NormalizeExt(job.FileType) != "pdf" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "only PDF preview is supported"})
		return
	}
	if _, err := os.Stat(job.FilePath); err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"detail": "resume file not found"})
		return
	}

	// RFC 5987 encoding so non-ASCII original filenames survive.
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("inline; filename*=UTF-8''%s", url.PathEscape(job.Filename)))
	http.ServeFile(w, r, job.FilePath)
}

func (s *Server) handleCandidateResumes(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jobs, err := s.jobs.ListByCandidate(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]map[string]any, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, map[string]any{
			"id":                job.ID,
			"filename":          job.Filename,
			"file_size":         job.FileSize,
			"file_type":         job.FileType,
			"processing_status": job.Status,
			"error_message":     job.ErrorMessage,
			"created_at":        job.CreatedAt,
			"processed_at":      job.ProcessedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}
