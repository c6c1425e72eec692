package report

import "report-sync/feature/report/models"

// UiState is the state published to the presentation layer. The set of
// implementations is closed; consumers switch over it exhaustively.
type UiState interface {
	uiState()
}

type (
	// Idle is the initial state and the state after Reset.
	Idle struct{}
	// LoadingReports is published while a refresh is in flight.
	LoadingReports struct{}
	// ReportsLoaded carries the fetched snapshot.
	ReportsLoaded struct{ Reports []models.Report }
	// LoadError carries the refresh failure.
	LoadError struct{ Err error }

	Saving      struct{}
	SaveSuccess struct{ Report models.Report }
	SaveError   struct{ Err error }

	Updating      struct{}
	UpdateSuccess struct{}
	UpdateError   struct{ Err error }

	Deleting      struct{}
	DeleteSuccess struct{}
	DeleteError   struct{ Err error }
)

func (Idle) uiState()           {}
func (LoadingReports) uiState() {}
func (ReportsLoaded) uiState()  {}
func (LoadError) uiState()      {}
func (Saving) uiState()         {}
func (SaveSuccess) uiState()    {}
func (SaveError) uiState()      {}
func (Updating) uiState()       {}
func (UpdateSuccess) uiState()  {}
func (UpdateError) uiState()    {}
func (Deleting) uiState()       {}
func (DeleteSuccess) uiState()  {}
func (DeleteError) uiState()    {}

// StateName returns the wire name of s.
func StateName(s UiState) string {
	switch s.(type) {
	case Idle:
		return "idle"
	case LoadingReports:
		return "loading_reports"
	case ReportsLoaded:
		return "reports_loaded"
	case LoadError:
		return "load_error"
	case Saving:
		return "saving"
	case SaveSuccess:
		return "save_success"
	case SaveError:
		return "save_error"
	case Updating:
		return "updating"
	case UpdateSuccess:
		return "update_success"
	case UpdateError:
		return "update_error"
	case Deleting:
		return "deleting"
	case DeleteSuccess:
		return "delete_success"
	case DeleteError:
		return "delete_error"
	default:
		panic("report: unknown UiState")
	}
}

// StateView is the JSON shape of a UiState.
type StateView struct {
	State   string          `json:"state"`
	Reports []models.Report `json:"reports,omitempty"`
	Report  *models.Report  `json:"report,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// View flattens s into its JSON shape.
func View(s UiState) StateView {
	v := StateView{State: StateName(s)}
	switch st := s.(type) {
	case ReportsLoaded:
		v.Reports = st.Reports
		if v.Reports == nil {
			v.Reports = []models.Report{}
		}
	case SaveSuccess:
		r := st.Report
		v.Report = &r
	case LoadError:
		v.Error = errString(st.Err)
	case SaveError:
		v.Error = errString(st.Err)
	case UpdateError:
		v.Error = errString(st.Err)
	case DeleteError:
		v.Error = errString(st.Err)
	}
	return v
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
