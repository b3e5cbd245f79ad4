package ingest

import "time"

// ExtractCompany shapes a raw record into a CompanyProfile. Every attribute
// resolves through its candidate key list with a typed default, so a record
// missing half its fields still yields a storable profile.
func ExtractCompany(rec RawRecord, now time.Time) CompanyProfile {
	return CompanyProfile{
		Name:        StringField(rec, companyNameKeys, ""),
		LinkedInURL: StringField(rec, companyURLKeys, ""),
		Followers:   IntField(rec, followerKeys, 0),
		Website:     StringField(rec, websiteKeys, ""),
		Description: StringField(rec, descriptionKeys, ""),
		Industry:    StringField(rec, industryKeys, ""),
		CompanySize: StringField(rec, companySizeKeys, ""),
		Specialties: StringListField(rec, specialtyKeys),
		Location:    StringField(rec, locationKeys, ""),
		FetchedAt:   now,
	}
}

// ExtractPost shapes a raw record into a Post. The LinkedInPostID field is
// left empty; callers derive it through PostIdentity so the fallback hashing
// stays in one place. Hashtags and mentions prefer upstream-provided lists
// and fall back to scanning the content text.
func ExtractPost(rec RawRecord) Post {
	content := StringField(rec, contentKeys, "")
	hashtags := StringListField(rec, hashtagListKeys)
	mentions := StringListField(rec, mentionListKeys)
	if hashtags == nil || mentions == nil {
		derivedTags, derivedMentions := Annotate(content)
		if hashtags == nil {
			hashtags = derivedTags
		}
		if mentions == nil {
			mentions = derivedMentions
		}
	}
	return Post{
		Content:     content,
		PostType:    StringField(rec, postTypeKeys, ""),
		PublishedAt: StringField(rec, publishedAtKeys, ""),
		AuthorID:    StringField(rec, authorIDKeys, ""),
		Hashtags:    hashtags,
		Mentions:    mentions,
		RawData:     rec,
	}
}

// ExtractEngagement shapes a raw record into an EngagementMetrics row for the
// given post.
func ExtractEngagement(rec RawRecord, postID int64, now time.Time) EngagementMetrics {
	likes := IntField(rec, likesKeys, 0)
	comments := IntField(rec, commentsKeys, 0)
	shares := IntField(rec, sharesKeys, 0)
	impressions := IntField(rec, impressionsKeys, 0)
	clicks := IntField(rec, clicksKeys, 0)
	return EngagementMetrics{
		PostID:         postID,
		Likes:          likes,
		Comments:       comments,
		Shares:         shares,
		Impressions:    impressions,
		Clicks:         clicks,
		EngagementRate: EngagementRate(likes, comments, shares, clicks, impressions),
		MeasuredAt:     now,
	}
}
