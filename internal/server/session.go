package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Rewind/internal/capture"
	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/host"
	"github.com/SmitUplenchwar2687/Rewind/internal/playback"
	"github.com/SmitUplenchwar2687/Rewind/internal/storage"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

// Client message types.
const (
	MsgRecord = "record"
	MsgPlay   = "play"
	MsgTick   = "tick"
	MsgStop   = "stop"
)

// Server message types.
const (
	MsgReady   = "ready"
	MsgFrame   = "frame"
	MsgSaved   = "saved"
	MsgStopped = "stopped"
	MsgError   = "error"
)

// Session modes.
const (
	ModeRecord = "record"
	ModePlay   = "play"
)

// ClientMessage is sent by a remote host over /ws/session.
type ClientMessage struct {
	Type   string              `json:"type"`
	Name   string              `json:"name,omitempty"`
	Frame  timeline.FrameIndex `json:"frame"`
	Events []codec.Event       `json:"events,omitempty"`
	Exit   bool                `json:"exit,omitempty"`
}

// ServerMessage is sent back to the remote host.
type ServerMessage struct {
	Type       string              `json:"type"`
	Session    string              `json:"session,omitempty"`
	Name       string              `json:"name,omitempty"`
	Mode       string              `json:"mode,omitempty"`
	Frame      timeline.FrameIndex `json:"frame"`
	Events     []codec.Event       `json:"events,omitempty"`
	Exit       bool                `json:"exit,omitempty"`
	Slots      int                 `json:"slots,omitempty"`
	Terminated bool                `json:"terminated,omitempty"`
	Error      string              `json:"error,omitempty"`
}

const sessionSaveTimeout = 10 * time.Second

// session is owned by the goroutine serving one connection.
type session struct {
	id  string
	srv *Server
	log logrus.FieldLogger

	mode   string
	name   string
	remote *host.Remote
	rec    *capture.Recorder
	player *playback.Player
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("session upgrade failed")
		return
	}
	s.track(conn)
	defer s.untrack(conn)

	sess := &session{id: uuid.NewString(), srv: s}
	sess.log = s.log.WithField("session", sess.id)
	sess.log.Debug("session connected")

	for {
		var msg ClientMessage
		_, data, err := conn.ReadMessage()
		if err != nil {
			sess.disconnect()
			return
		}
		var replies []ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			replies = []ServerMessage{errorMessage(errors.Wrap(err, "invalid message"))}
		} else {
			replies = sess.handle(r.Context(), msg)
		}
		for _, reply := range replies {
			if err := conn.WriteJSON(reply); err != nil {
				sess.log.WithError(err).Debug("session write failed")
				sess.disconnect()
				return
			}
		}
	}
}

func errorMessage(err error) ServerMessage {
	return ServerMessage{Type: MsgError, Error: err.Error()}
}

// handle processes one client message and returns the replies to send.
func (sess *session) handle(ctx context.Context, msg ClientMessage) []ServerMessage {
	var (
		reply ServerMessage
		err   error
	)
	switch msg.Type {
	case MsgRecord:
		reply, err = sess.record(msg)
	case MsgPlay:
		reply, err = sess.play(ctx, msg)
	case MsgTick:
		reply, err = sess.tick(ctx, msg)
	case MsgStop:
		reply, err = sess.stop(ctx)
	default:
		err = errors.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		sess.log.WithError(err).WithField("type", msg.Type).Debug("session message rejected")
		return []ServerMessage{errorMessage(err)}
	}
	return []ServerMessage{reply}
}

func (sess *session) record(msg ClientMessage) (ServerMessage, error) {
	if sess.mode != "" {
		return ServerMessage{}, errors.Errorf("session already %sing", sess.mode)
	}
	name := msg.Name
	if name == "" {
		name = uuid.NewString()
	}
	if err := storage.ValidateName(name); err != nil {
		return ServerMessage{}, err
	}

	sess.remote = host.NewRemote(msg.Frame)
	sess.rec = capture.New(sess.remote, sess.remote, sess.remote,
		capture.WithModes(sess.srv.modes),
		capture.WithLogger(sess.log))
	if err := sess.rec.Start(); err != nil {
		return ServerMessage{}, err
	}
	sess.mode, sess.name = ModeRecord, name
	sess.log.WithFields(logrus.Fields{"name": name, "frame": msg.Frame}).Info("recording started")

	return ServerMessage{Type: MsgReady, Session: sess.id, Name: name, Mode: ModeRecord, Frame: msg.Frame}, nil
}

func (sess *session) play(ctx context.Context, msg ClientMessage) (ServerMessage, error) {
	if sess.mode != "" {
		return ServerMessage{}, errors.Errorf("session already %sing", sess.mode)
	}
	if err := storage.ValidateName(msg.Name); err != nil {
		return ServerMessage{}, err
	}
	data, err := sess.srv.store.Load(ctx, msg.Name)
	if err != nil {
		return ServerMessage{}, err
	}

	remote := host.NewRemote(msg.Frame)
	player := playback.New(remote, remote, remote, playback.WithLogger(sess.log))
	if err := player.Load(data); err != nil {
		return ServerMessage{}, err
	}
	if err := player.Start(); err != nil {
		return ServerMessage{}, err
	}
	sess.remote, sess.player = remote, player
	sess.mode, sess.name = ModePlay, msg.Name
	sess.log.WithFields(logrus.Fields{"name": msg.Name, "frame": msg.Frame}).Info("playback started")

	return ServerMessage{
		Type:       MsgReady,
		Session:    sess.id,
		Name:       msg.Name,
		Mode:       ModePlay,
		Frame:      msg.Frame,
		Slots:      player.Remaining(),
		Terminated: player.Timeline().Terminated,
	}, nil
}

func (sess *session) tick(ctx context.Context, msg ClientMessage) (ServerMessage, error) {
	if sess.mode == "" {
		return ServerMessage{}, errors.New("no active session, send record or play first")
	}
	events, err := codec.DecodeEvents(msg.Events)
	if err != nil {
		return ServerMessage{}, err
	}
	if err := sess.remote.Begin(msg.Frame, events, msg.Exit); err != nil {
		return ServerMessage{}, err
	}

	if sess.mode == ModeRecord {
		sess.rec.Tick()
		sess.broadcast(msg.Frame, msg.Events, msg.Exit)
		if msg.Exit {
			return sess.finishRecording(ctx)
		}
		return ServerMessage{Type: MsgFrame, Frame: msg.Frame}, nil
	}

	sess.player.Tick()
	injected, exit := sess.remote.Collect()
	wire, err := codec.EncodeEvents(injected)
	if err != nil {
		return ServerMessage{}, err
	}
	sess.broadcast(msg.Frame, wire, exit)
	if exit {
		sess.log.WithField("frame", msg.Frame).Info("playback finished")
		sess.reset()
	}
	return ServerMessage{Type: MsgFrame, Frame: msg.Frame, Events: wire, Exit: exit}, nil
}

func (sess *session) stop(ctx context.Context) (ServerMessage, error) {
	switch sess.mode {
	case ModeRecord:
		return sess.finishRecording(ctx)
	case ModePlay:
		name := sess.name
		sess.reset()
		return ServerMessage{Type: MsgStopped, Name: name, Mode: ModePlay}, nil
	default:
		return ServerMessage{}, errors.New("no active session")
	}
}

func (sess *session) finishRecording(ctx context.Context) (ServerMessage, error) {
	name := sess.name
	tl, err := sess.rec.Stop()
	sess.reset()
	if err != nil {
		return ServerMessage{}, err
	}

	data, err := codec.EncodeFormat(tl, sess.srv.format)
	if err != nil {
		return ServerMessage{}, err
	}
	if err := sess.srv.store.Save(ctx, name, data); err != nil {
		return ServerMessage{}, err
	}
	sess.log.WithFields(logrus.Fields{
		"name":       name,
		"slots":      tl.Len(),
		"events":     tl.EventCount(),
		"terminated": tl.Terminated,
	}).Info("recording saved")

	return ServerMessage{Type: MsgSaved, Name: name, Slots: tl.Len(), Terminated: tl.Terminated}, nil
}

// disconnect keeps whatever a dropped recording captured.
func (sess *session) disconnect() {
	if sess.mode == ModeRecord {
		ctx, cancel := context.WithTimeout(context.Background(), sessionSaveTimeout)
		defer cancel()
		if _, err := sess.finishRecording(ctx); err != nil {
			sess.log.WithError(err).Warn("saving interrupted recording failed")
		}
	}
	sess.reset()
	sess.log.Debug("session disconnected")
}

func (sess *session) reset() {
	sess.mode, sess.name = "", ""
	sess.remote, sess.rec, sess.player = nil, nil, nil
}

func (sess *session) broadcast(frame timeline.FrameIndex, events []codec.Event, exit bool) {
	sess.srv.hub.Broadcast(&MonitorEvent{
		Session: sess.id,
		Name:    sess.name,
		Mode:    sess.mode,
		Frame:   frame,
		Events:  events,
		Exit:    exit,
		Time:    time.Now().UTC(),
	})
}
