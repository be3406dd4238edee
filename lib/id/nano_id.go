package id

import (
	crand "crypto/rand"
	"fmt"
	"sync"
)

// NanoIDGen returns a fresh url-safe identifier on each call.
type NanoIDGen func() string

type idErr string

func (e idErr) Error() string { return string(e) }

const (
	ErrInvalidNanoIDLength idErr = "[nano-id] invalid length, expected [2, 255]"
)

const nanoIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// ClassicNanoID reads random bytes from crypto/rand in batches of
// length*8 ids and maps each byte onto the 64 symbol alphabet.
func ClassicNanoID(length int) (NanoIDGen, error) {
	if length < 2 || length > 255 {
		return nil, ErrInvalidNanoIDLength
	}

	batch := make([]byte, length*8*length)
	offset := len(batch)
	mask := byte(len(nanoIDAlphabet) - 1)

	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		if offset+length > len(batch) {
			if _, err := crand.Read(batch); err != nil {
				panic(fmt.Errorf("[nano-id] refill random bytes failed, %w", err))
			}
			offset = 0
		}
		id := make([]byte, length)
		for i := range id {
			id[i] = nanoIDAlphabet[batch[offset+i]&mask]
		}
		offset += length
		return string(id)
	}, nil
}
