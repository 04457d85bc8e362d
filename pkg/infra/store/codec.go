package store

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/model"
)

// DefaultTTL is how long an idle session and its parked file are kept
const DefaultTTL = 24 * time.Hour

func encodeSession(sess *model.Session) ([]byte, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode session", goerr.V("session_id", sess.ID))
	}
	return raw, nil
}

func decodeSession(raw []byte) (*model.Session, error) {
	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session")
	}
	return &sess, nil
}
