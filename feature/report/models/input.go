package models

// NewReport holds the fields of a report before the remote assigns its id and
// creation time. An empty UserID means the signed-in user.
type NewReport struct {
	UserID      string   `json:"userId"`
	Description string   `json:"description" validate:"required,max=2000"`
	Name        string   `json:"name" validate:"required,max=200"`
	Phone       string   `json:"phone" validate:"required,max=50"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,max=2048"`
	IsLost      bool     `json:"isLost"`
	Location    *string  `json:"location"`
	Lat         *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng         *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
}

// Build turns the input into a stored report.
func (n NewReport) Build(id, userID string, createdAt int64) Report {
	return Report{
		ID:          id,
		UserID:      userID,
		Description: n.Description,
		Name:        n.Name,
		Phone:       n.Phone,
		ImageURL:    n.ImageURL,
		IsLost:      n.IsLost,
		Location:    n.Location,
		Lat:         n.Lat,
		Lng:         n.Lng,
		CreatedAt:   createdAt,
	}
}

// ReportPatch is a partial update. A nil field is left unchanged. Optional
// attributes are cleared with the Clear flags, which win over a value.
type ReportPatch struct {
	Description      *string  `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	Name             *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone            *string  `json:"phone,omitempty" validate:"omitempty,min=1,max=50"`
	ImageURL         *string  `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
	IsLost           *bool    `json:"isLost,omitempty"`
	Location         *string  `json:"location,omitempty"`
	Lat              *float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lng              *float64 `json:"lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	ClearLocation    bool     `json:"clearLocation,omitempty"`
	ClearCoordinates bool     `json:"clearCoordinates,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ReportPatch) Empty() bool {
	return p.Description == nil &&
		p.Name == nil &&
		p.Phone == nil &&
		p.ImageURL == nil &&
		p.IsLost == nil &&
		p.Location == nil &&
		p.Lat == nil &&
		p.Lng == nil &&
		!p.ClearLocation &&
		!p.ClearCoordinates
}

// Apply writes the patch onto r. The id, owner and creation time never change.
func (p ReportPatch) Apply(r *Report) {
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.ImageURL != nil {
		r.ImageURL = *p.ImageURL
	}
	if p.IsLost != nil {
		r.IsLost = *p.IsLost
	}

	switch {
	case p.ClearLocation:
		r.Location = nil
	case p.Location != nil:
		v := *p.Location
		r.Location = &v
	}

	if p.ClearCoordinates {
		r.Lat, r.Lng = nil, nil
		return
	}
	if p.Lat != nil {
		v := *p.Lat
		r.Lat = &v
	}
	if p.Lng != nil {
		v := *p.Lng
		r.Lng = &v
	}
}
