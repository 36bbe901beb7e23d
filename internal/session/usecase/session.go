package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"context-gateway/internal/model"
	"context-gateway/internal/session"
	"context-gateway/pkg/kvstore"
	"context-gateway/pkg/metrics"
)

func (uc *implUseCase) Create(ctx context.Context, sc model.Scope) (session.Session, error) {
	if sc.IsZero() {
		return session.Session{}, session.ErrMissingOwner
	}

	id, err := newID()
	if err != nil {
		return session.Session{}, fmt.Errorf("session.Create: %w", err)
	}

	now := uc.now().UTC()
	sess := session.Session{
		ID:             id,
		OwnerID:        sc.UserID,
		ClientName:     sc.ClientName,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return session.Session{}, fmt.Errorf("session.Create: %w", err)
	}
	if err := uc.store.Set(ctx, session.KeyPrefix+id, raw); err != nil {
		return session.Session{}, fmt.Errorf("session.Create: %w", err)
	}

	metrics.RecordSessionCreated()
	uc.l.Infof(ctx, "internal.session.usecase.Create: session created owner=%s client=%s", sc.UserID, sc.ClientName)
	return sess, nil
}

func (uc *implUseCase) Validate(ctx context.Context, id string) (session.Session, error) {
	sess, err := uc.Lookup(ctx, id)
	if err != nil {
		return session.Session{}, err
	}

	sess.LastActivityAt = uc.now().UTC()
	raw, err := json.Marshal(sess)
	if err != nil {
		return session.Session{}, fmt.Errorf("session.Validate: %w", err)
	}

	// Replace loses the race against a concurrent Terminate or expiry.
	ok, err := uc.store.Replace(ctx, session.KeyPrefix+id, raw)
	if err != nil {
		return session.Session{}, fmt.Errorf("session.Validate: %w", err)
	}
	if !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	return sess, nil
}

func (uc *implUseCase) Lookup(ctx context.Context, id string) (session.Session, error) {
	if id == "" {
		return session.Session{}, session.ErrSessionNotFound
	}

	raw, err := uc.store.Get(ctx, session.KeyPrefix+id)
	if errors.Is(err, kvstore.ErrNotFound) {
		return session.Session{}, session.ErrSessionNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("session.Lookup: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return session.Session{}, fmt.Errorf("session.Lookup: %w", err)
	}

	if uc.idleTTL > 0 && uc.now().Sub(sess.LastActivityAt) > uc.idleTTL {
		if _, err := uc.terminate(ctx, id, "expired"); err != nil {
			uc.l.Warnf(ctx, "internal.session.usecase.Lookup: expire %s: %v", id, err)
		}
		return session.Session{}, session.ErrSessionNotFound
	}
	return sess, nil
}

func (uc *implUseCase) Terminate(ctx context.Context, id string) (bool, error) {
	return uc.terminate(ctx, id, "explicit")
}

func (uc *implUseCase) terminate(ctx context.Context, id, reason string) (bool, error) {
	if id == "" {
		return false, nil
	}

	existed, err := uc.store.Delete(ctx, session.KeyPrefix+id)
	if err != nil {
		return false, fmt.Errorf("session.Terminate: %w", err)
	}

	uc.notify(id)
	if existed {
		metrics.RecordSessionTerminated(reason)
	}
	return existed, nil
}

func newID() (string, error) {
	b := make([]byte, session.IDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
