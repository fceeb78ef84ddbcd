package entities

// CapabilityViewFinancial grants access to internal cost breakdown and margin.
const CapabilityViewFinancial = "propostas.view_financial"

type ViewerRole string

const (
	ViewerRoleInternal ViewerRole = "internal"
	ViewerRoleClient   ViewerRole = "client"
)

// Viewer is the context a proposal is projected for.
type Viewer struct {
	Role         ViewerRole
	UserID       string
	Capabilities []string
}

func ClientViewer() Viewer {
	return Viewer{Role: ViewerRoleClient}
}

func InternalViewer(userID string, capabilities ...string) Viewer {
	return Viewer{Role: ViewerRoleInternal, UserID: userID, Capabilities: capabilities}
}

func (v Viewer) Can(capability string) bool {
	for _, c := range v.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Document is the output of the rendering collaborator.
type Document struct {
	Bytes    []byte
	MimeType string
	Filename string
}
