package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/recorder"
	"github.com/bebora/grubix/internal/replay"
	"github.com/bebora/grubix/internal/storage"
)

// recordingOptions selects what a recording keeps.
type recordingOptions struct {
	sessions   bool
	replays    bool
	resume     bool
	replayRoot string
	deviceName string
}

// recording ties an engine to the session recorder and the replay writer.
type recording struct {
	db      *storage.DB
	session *recorder.Session
	writer  *replay.Writer
	engine  *grubix.Engine
	log     *logrus.Entry

	cancel context.CancelFunc
	done   chan struct{}
}

// defaultReplayRoot returns ~/.grubix/replays.
func defaultReplayRoot() (string, error) {
	home, err := storage.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "replays"), nil
}

// startRecording must run before any other commit hook is attached, since a
// resumed session replays its stored moves into the engine first.
func startRecording(engine *grubix.Engine, stateFile *recorder.StateFile, opts recordingOptions) (*recording, error) {
	r := &recording{engine: engine, log: logEntry("recording")}

	if opts.sessions {
		db, err := openDB(stateFile)
		if err != nil {
			return nil, err
		}
		r.db = db
		r.session = recorder.NewSession(db, stateFile, logEntry("recorder"))
		r.session.SetDevice(opts.deviceName)

		if err := r.restore(engine, stateFile, opts.resume); err != nil {
			db.Close()
			return nil, err
		}
		r.session.Attach(engine)
	}

	if opts.replays {
		root := opts.replayRoot
		if root == "" {
			d, err := defaultReplayRoot()
			if err != nil {
				r.Close()
				return nil, err
			}
			root = d
		}
		w, manifest, err := replay.NewWriter(root, r.sessionID(), time.Now)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to create replay: %w", err)
		}
		r.writer = w
		w.Attach(engine)
		r.log.WithField("dir", w.Directory()).WithField("created_at", manifest.CreatedAt).Info("replay started")

		if r.session != nil {
			sessions := storage.NewSessionRepository(r.db)
			r.session.OnEnd(func(sum recorder.Summary) {
				if err := sessions.SetReplayPath(sum.SessionID, w.Directory()); err != nil {
					r.log.WithError(err).Warn("failed to link replay")
				}
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		r.cancel = cancel
		r.done = make(chan struct{})
		go r.capture(ctx, engine)
	}
	return r, nil
}

// restore deals with a session left open by a previous run: it is either
// resumed, with its moves reapplied to the engine, or closed as unsolved.
func (r *recording) restore(engine *grubix.Engine, stateFile *recorder.StateFile, resume bool) error {
	if stateFile == nil || !stateFile.HasActiveSession() {
		return nil
	}
	id := stateFile.ActiveSessionID()
	if err := r.session.Resume(id); err != nil {
		r.log.WithError(err).WithField("session", id).Warn("dropping stale session")
		return stateFile.ClearActiveSession()
	}
	if !resume {
		return r.session.End()
	}

	records, err := storage.NewMoveRepository(r.db).GetBySession(id)
	if err != nil {
		return err
	}
	moves := make([]grubix.Move, len(records))
	for i, rec := range records {
		moves[i] = rec.Move()
	}
	if err := engine.Apply(moves...); err != nil {
		return fmt.Errorf("failed to restore session moves: %w", err)
	}
	r.log.WithFields(logrus.Fields{"session": id, "moves": len(moves)}).Info("session resumed")
	return nil
}

func (r *recording) sessionID() string {
	if r.session == nil {
		return ""
	}
	return r.session.SessionID()
}

func (r *recording) capture(ctx context.Context, engine *grubix.Engine) {
	defer close(r.done)
	ticker := time.NewTicker(replay.DefaultFrameInterval)
	defer ticker.Stop()

	if _, err := r.writer.Capture(engine.Snapshot()); err != nil {
		r.log.WithError(err).Warn("frame capture failed")
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.writer.Capture(engine.Snapshot()); err != nil {
				r.log.WithError(err).Warn("frame capture failed")
				return
			}
		}
	}
}

// Reset marks a cube reset: the current session ends unsolved.
func (r *recording) Reset() {
	if r.writer != nil {
		if err := r.writer.AppendEvent(replay.Event{Type: replay.EventReset}); err != nil {
			r.log.WithError(err).Warn("failed to log reset")
		}
	}
	if r.session != nil && r.session.State() == recorder.StateRecording {
		if err := r.session.End(); err != nil {
			r.log.WithError(err).Warn("failed to end session")
		}
	}
}

// Close stops frame capture and closes the replay and the database. The
// open session, if any, stays active in the state file for a later resume.
func (r *recording) Close() error {
	var firstErr error
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
	if r.writer != nil {
		if err := r.writer.Finish(r.engine.Snapshot()); err != nil {
			firstErr = err
		}
		r.log.WithField("dir", r.writer.Directory()).Info("replay saved")
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// printSummary reports a finished session.
func printSummary(out io.Writer, sum recorder.Summary) {
	status := "unsolved"
	if sum.Solved {
		status = "solved"
	}
	fmt.Fprintf(out, "Session %s %s: %d moves in %s\n", shortID(sum.SessionID), status, sum.Moves, formatDuration(sum.Duration))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%d:%05.2f", mins, secs)
}
