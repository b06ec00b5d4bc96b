package models

// Person holds the structure for the people collection in mongo. The
// collection is owned by the person-directory service; this API only ever
// reads it, which is why it keeps the legacy nested document shape.
type Person struct {
	ID      string        `json:"_id" bson:"_id"`
	Details PersonDetails `json:"person" bson:"person"`
	Version int32         `json:"__v" bson:"__v"`
}

// PersonDetails holds the structure for the inner person structure as defined in the people collection in mongo
type PersonDetails struct {
	Name             string      `json:"name" bson:"name"`
	Username         string      `json:"username" bson:"username"`
	Email            string      `json:"email" bson:"email"`
	Password         string      `json:"password" bson:"password"`
	Bio              string      `json:"bio" bson:"bio"`
	Interests        []string    `json:"interests" bson:"interests"`
	Expertise        []string    `json:"expertise" bson:"expertise"`
	Offerings        []string    `json:"offerings" bson:"offerings"`
	Seeking          []string    `json:"seeking" bson:"seeking"`
	AvailabilityText string      `json:"availabilityText" bson:"availabilityText"`
	Timezone         string      `json:"timezone" bson:"timezone"`
	WechatID         string      `json:"wechatId" bson:"wechatId"`
	City             string      `json:"city" bson:"city"`
	CreatedAt        interface{} `json:"createdAt" bson:"createdAt"`
	UpdatedAt        interface{} `json:"updatedAt" bson:"updatedAt"`
}

// PersonSummary is the trimmed person shape embedded in invite and meeting
// responses so counterpart details render without a second lookup.
type PersonSummary struct {
	ID               string   `json:"_id"`
	Name             string   `json:"name"`
	Username         string   `json:"username"`
	Bio              string   `json:"bio"`
	Interests        []string `json:"interests"`
	Expertise        []string `json:"expertise"`
	AvailabilityText string   `json:"availabilityText"`
	City             string   `json:"city"`
	Timezone         string   `json:"timezone"`
}

// Summary converts a full person document into its embeddable summary
func (p Person) Summary() PersonSummary {
	return PersonSummary{
		ID:               p.ID,
		Name:             p.Details.Name,
		Username:         p.Details.Username,
		Bio:              p.Details.Bio,
		Interests:        p.Details.Interests,
		Expertise:        p.Details.Expertise,
		AvailabilityText: p.Details.AvailabilityText,
		City:             p.Details.City,
		Timezone:         p.Details.Timezone,
	}
}
