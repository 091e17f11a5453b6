package contract

import (
	"github.com/atendeplus/roteiro/internal/util"
	"github.com/atendeplus/roteiro/model"
	"github.com/atendeplus/roteiro/role"
)

// Shapes are built once at init; CreateSchema walks each struct via reflection.
var (
	routeShape       = &model.Shape{Name: "RouteDecision", Schema: util.CreateSchema(RouteDecision{})}
	replyShape       = &model.Shape{Name: "AgentReply", Schema: util.CreateSchema(AgentReply{})}
	summaryShape     = &model.Shape{Name: "HandoffSummary", Schema: util.CreateSchema(HandoffSummary{})}
	coordinatorShape = &model.Shape{Name: "CoordinatorDecision", Schema: util.CreateSchema(CoordinatorDecision{})}
)

// ShapeFor returns the structured output shape bound to a role, or nil for
// roles that answer in free text.
func ShapeFor(r role.Role) *model.Shape {
	switch r {
	case role.Triage:
		return routeShape
	case role.Coordinator:
		return coordinatorShape
	case role.Summary:
		return summaryShape
	case role.Commercial, role.UnitGuide, role.Quoter, role.TechnicalConsultant:
		return replyShape
	case role.Unresolved:
		return nil
	}
	return nil
}

// ValidateForRole decodes raw JSON against the shape bound to a role and
// reports the first invariant violation. Free-text roles always pass.
func ValidateForRole(r role.Role, data []byte) error {
	switch r {
	case role.Triage:
		_, err := ParseRouteDecision(data)
		return err
	case role.Coordinator:
		_, err := ParseCoordinatorDecision(data)
		return err
	case role.Summary:
		_, err := ParseHandoffSummary(data)
		return err
	case role.Commercial, role.UnitGuide, role.Quoter, role.TechnicalConsultant:
		_, err := ParseAgentReply(data)
		return err
	}
	return nil
}
