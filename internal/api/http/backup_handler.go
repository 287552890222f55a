package http

import (
	"encoding/json"
	"net/http"

	"microfinance-backend/internal/service"
)

// BackupHandler exposes the backup/restore workflow and the maintenance gate
// to administrators.
type BackupHandler struct {
	backupSvc service.BackupService
}

func NewBackupHandler(backupSvc service.BackupService) *BackupHandler {
	return &BackupHandler{backupSvc: backupSvc}
}

func (h *BackupHandler) StartBackup(w http.ResponseWriter, r *http.Request) {
	actor := claimsFromContext(r.Context())
	operationName, err := h.backupSvc.StartBackup(r.Context(), actor.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"operation": operationName})
}

type restoreRequest struct {
	// BackupRunID selects the backup to restore; zero means the latest
	// successful backup.
	BackupRunID int64 `json:"backup_run_id"`
}

func (h *BackupHandler) StartRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	actor := claimsFromContext(r.Context())
	operationName, err := h.backupSvc.StartRestore(r.Context(), actor.UserID, req.BackupRunID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"operation": operationName})
}

func (h *BackupHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backupSvc.ListBackups(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, backups)
}

// MaintenanceStatus is readable without authentication so clients can poll it
// while the gate is up.
func (h *BackupHandler) MaintenanceStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.backupSvc.Status(r.Context()))
}

type clearMaintenanceRequest struct {
	Message string `json:"message,omitempty"`
}

func (h *BackupHandler) ClearMaintenance(w http.ResponseWriter, r *http.Request) {
	var req clearMaintenanceRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	actor := claimsFromContext(r.Context())
	if err := h.backupSvc.ClearMaintenance(r.Context(), actor.UserID, req.Message); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.backupSvc.Status(r.Context()))
}
