// Package storage provides the persistent key-value backends behind the
// profile cache.
//
// Three backends implement KV:
//   - MemoryKV keeps values in a map for the lifetime of the process
//   - FileKV writes one file per key using temporary files and rename
//   - RedisKV stores values in Redis, optionally with an expiration
//
// Values are opaque bytes; the cache package owns their encoding.
//
// Usage:
//
//	kv, err := storage.Open(cfg.Cache)
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
//
//	if err := kv.SetItem(ctx, "parsifly_tiktok_jane", data); err != nil {
//	    log.Printf("cache write failed: %v", err)
//	}
package storage
