package ingest

import "errors"

// errNoPostIdentity reports a post record with nothing to key on.
var errNoPostIdentity = errors.New("post has no id, url, or content to derive an identity from")

// PostIdentity returns a stable identifier for a post record. Exports vary:
// some carry a platform post id, some only a share URL, and CSV exports
// often carry neither. The fallback chain hashes whatever stable material
// the record does have so that re-delivered batches upsert instead of
// duplicating.
func PostIdentity(rec RawRecord, hasher Hasher) (string, error) {
	if id := StringField(rec, postIDKeys, ""); id != "" {
		return id, nil
	}
	if url := StringField(rec, postURLKeys, ""); url != "" {
		return hasher.Hash([]byte(url))
	}
	content := StringField(rec, contentKeys, "")
	published := StringField(rec, publishedAtKeys, "")
	if content == "" && published == "" {
		return "", errNoPostIdentity
	}
	return hasher.Hash([]byte(content + "|" + published))
}
