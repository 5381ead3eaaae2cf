package service

import (
	"sync"
	"time"
)

// uploadTTL is how long an image uploaded ahead of its recipe can still be
// attached to one.
const uploadTTL = 24 * time.Hour

type pendingUpload struct {
	key     string
	userID  string
	expires time.Time
}

// uploads remembers images uploaded before their recipe exists, keyed by
// public URL, so a recipe can only reference blobs its author uploaded. It
// also hands out image keys that never repeat within the process.
type uploads struct {
	mu      sync.Mutex
	pending map[string]pendingUpload
	lastMs  int64
}

func newUploads() *uploads {
	return &uploads{pending: make(map[string]pendingUpload)}
}

// nextKey returns the blob key for an upload at now. Uploads landing in the
// same millisecond are pushed to the next free one.
func (u *uploads) nextKey(recipeID string, now time.Time) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	ms := now.UnixMilli()
	if ms <= u.lastMs {
		ms = u.lastMs + 1
	}
	u.lastMs = ms
	return ImageKey(recipeID, time.UnixMilli(ms))
}

func (u *uploads) add(url, key, userID string, now time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for k, p := range u.pending {
		if now.After(p.expires) {
			delete(u.pending, k)
		}
	}
	u.pending[url] = pendingUpload{key: key, userID: userID, expires: now.Add(uploadTTL)}
}

// take removes and returns the upload behind url when userID made it and it
// has not expired. restore puts it back after a failed write.
func (u *uploads) take(url, userID string, now time.Time) (key string, restore func(), ok bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	p, found := u.pending[url]
	if !found || p.userID != userID || now.After(p.expires) {
		return "", nil, false
	}
	delete(u.pending, url)
	return p.key, func() {
		u.mu.Lock()
		defer u.mu.Unlock()
		u.pending[url] = p
	}, true
}
