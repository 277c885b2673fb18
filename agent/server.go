package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"othello/game"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type FindMoveRequest struct {
	Board       [][]int `json:"board"`
	Player      int     `json:"player"`
	LegalMoves  [][]int `json:"legalMoves"`            // Computed locally when missing; [] means pass
	MaxTurnTime int     `json:"maxTurnTime,omitempty"` // Milliseconds
}

type FindMoveResponse struct {
	Move []int `json:"move"`
	Pass bool  `json:"pass"`
}

// Server answers /findmove requests with the driver. Decisions are serialized:
// one turn is decided at a time.
type Server struct {
	sync.Mutex
	driver           *Driver
	deadlineFraction float64
}

func NewServer(driver *Driver, deadlineFraction float64) *Server {
	return &Server{driver: driver, deadlineFraction: deadlineFraction}
}

func (s *Server) Handler() http.Handler {
	// Local mux rather than the global DefaultServeMux
	mux := http.NewServeMux()
	mux.HandleFunc("/findmove", s.handleFindMove)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("agent server listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FindMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	board, err := game.FromGrid(req.Board)
	if err != nil {
		http.Error(w, "bad board: "+err.Error(), http.StatusBadRequest)
		return
	}
	color, err := game.ColorFromPlayer(req.Player)
	if err != nil {
		http.Error(w, "bad player: "+err.Error(), http.StatusBadRequest)
		return
	}

	var legal []game.Move
	if req.LegalMoves == nil {
		legal = game.LegalMoves(board, color)
	} else {
		legal = make([]game.Move, 0, len(req.LegalMoves))
		for _, pair := range req.LegalMoves {
			m, err := game.MoveFromPair(pair)
			if err != nil {
				http.Error(w, "bad legal move: "+err.Error(), http.StatusBadRequest)
				return
			}
			legal = append(legal, m)
		}
	}

	ctx := r.Context()
	if req.MaxTurnTime > 0 && s.deadlineFraction > 0 {
		budget := time.Duration(float64(req.MaxTurnTime)*s.deadlineFraction) * time.Millisecond
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	s.Lock()
	move, _, err := s.driver.Decide(ctx, board, color, legal)
	s.Unlock()
	if err != nil {
		http.Error(w, "cannot decide: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := FindMoveResponse{Move: move.Pair(), Pass: move.IsPass()}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode move: "+err.Error(), http.StatusInternalServerError)
	}
}
