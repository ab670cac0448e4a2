package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/repository"
)

const defaultRecentLimit = 20

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// recentGamesHandler serves the latest archived game results. With no
// archive wired it answers with an empty list.
func recentGamesHandler(logger *slog.Logger, archive repository.ArchiveRepository) http.HandlerFunc {
	log := logger.With("method", "recentGamesHandler")

	return func(w http.ResponseWriter, r *http.Request) {
		results := []*entity.GameResult{}

		if archive != nil {
			var err error
			results, err = archive.Recent(r.Context(), defaultRecentLimit)
			if err != nil {
				log.Error("failed to load recent games", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(results); err != nil {
			log.Error("failed to encode recent games", "error", err)
		}
	}
}
