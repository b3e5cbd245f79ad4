package ingest

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  RawRecord
		want RecordKind
	}{
		{
			"company marker",
			RawRecord{"companyName": "Acme Corp", "followerCount": float64(10)},
			KindCompany,
		},
		{
			"post marker",
			RawRecord{"postId": "urn:li:activity:123", "likes": float64(3)},
			KindPost,
		},
		{
			// Company wins when both markers are present.
			"company outranks post",
			RawRecord{"companyName": "Acme Corp", "postId": "urn:li:activity:123"},
			KindCompany,
		},
		{
			"post url counts as marker",
			RawRecord{"postUrl": "https://www.linkedin.com/feed/update/123"},
			KindPost,
		},
		{
			"post type counts as marker",
			RawRecord{"postType": "article", "content": "hello"},
			KindPost,
		},
		{
			"no markers",
			RawRecord{"somethingElse": "value"},
			KindUnknown,
		},
		{
			// CSV rows carry every header; empty cells must not classify.
			"empty company cell",
			RawRecord{"companyName": "", "postId": "abc"},
			KindPost,
		},
		{
			"null company value",
			RawRecord{"companyName": nil},
			KindUnknown,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.rec); got != tc.want {
				t.Fatalf("Classify = %q, want %q", got, tc.want)
			}
		})
	}
}
