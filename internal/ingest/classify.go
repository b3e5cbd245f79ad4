package ingest

// classifyPostKeys is the union of keys that identify a record as a post:
// an explicit id, a post URL, or a post type. Bare "url"/"name" style keys are
// deliberately excluded; they appear on too many unrelated exports.
var classifyPostKeys = []string{
	"postId", "post_id", "postID",
	"postUrl", "post_url", "shareUrl", "activityUrl",
	"postType", "post_type",
}

// Classify decides what a record represents. Priority is fixed: a usable
// company-name field always wins, then post-identifying keys, else unknown.
// Unknown records are skipped by the pipeline, not treated as errors, so new
// upstream record types degrade gracefully.
func Classify(rec RawRecord) RecordKind {
	if hasAny(rec, companyNameKeys) {
		return KindCompany
	}
	if hasAny(rec, classifyPostKeys) {
		return KindPost
	}
	return KindUnknown
}
