package prompts

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"c8ymcp/internal/c8y"
)

const auditTypes = `- Alarm: alarm changes
- Application: application changes
- Event: event changes
- Inventory: managed object changes
- Operation: operation changes
- User: user management
- Group: group management
- Tenant: tenant management
- SingleSignOn: SSO events
- UserAuthentication: login and logout
`

func metadataGuide() Prompt {
	return static("metadata-guide", "Learn about dashboards and audit logs.", `# Dashboards and Audit Logs

## Dashboards
Dashboards visualize device data. They belong to one device, to a group, or
to the whole tenant.
    get-dashboards(deviceId: "12345")

## Audit logs
Audit logs track administrative actions and system events. Audit queries
need both dateFrom and dateTo in ISO 8601; the datetime-guide prompt lists
ready-made ranges.

Types:
`+auditTypes+`
## Examples
    get-audit(dateFrom: "2025-12-16T00:00:00Z", dateTo: "2025-12-17T00:00:00Z")
    get-audit(type: "Inventory", user: "admin", dateFrom: "2025-12-10T00:00:00Z", dateTo: "2025-12-17T00:00:00Z")
    get-audit(type: "UserAuthentication", dateFrom: "2025-11-17T00:00:00Z", dateTo: "2025-12-17T00:00:00Z")

pageSize (default 50) and page control paging. Filter by user and type to
keep results small; reading audit logs needs the matching permission.
`)
}

func auditQuery() Prompt {
	return static("audit-query", "Get help with audit log queries and available audit types.", `# Audit Query Help

Audit queries need both dateFrom and dateTo in ISO 8601. Use the
datetime-guide or calculate-date-range prompts to get them.

## Record types
`+auditTypes+`
## Parameters
- dateFrom, dateTo: required
- user: filter by user name
- type: filter by audit type
- application: filter by application name (cockpit, devicemanagement, ...)
- source: filter by managed object ID

## Examples
    get-audit(type: "UserAuthentication", dateFrom: "2025-12-16T00:00:00.000Z", dateTo: "2025-12-17T00:00:00.000Z")
    get-audit(user: "admin", dateFrom: "2025-12-10T00:00:00.000Z", dateTo: "2025-12-17T00:00:00.000Z")
    get-audit(type: "Inventory", source: "12345", dateFrom: "2025-12-10T00:00:00.000Z", dateTo: "2025-12-17T00:00:00.000Z")
`)
}

func applicationsGuide() Prompt {
	return static("applications-guide", "Guide for querying applications, extensions, plugins, widgets, and microservices.", `# Applications

"Application" covers several things:

| Asked for                    | What it is                     | Query                 |
|------------------------------|--------------------------------|-----------------------|
| Widget                       | UI component in an extension   | type HOSTED, then its manifest |
| Extension, plugin, package   | Frontend package               | type HOSTED           |
| Microservice                 | Backend service                | type MICROSERVICE     |
| Application                  | Any of the above               | no type filter        |

## type
- HOSTED: frontend extensions and plugins; these contain widgets
- MICROSERVICE: backend services
- EXTERNAL: external links

## availability
- MARKET: from the Cumulocity marketplace
- PRIVATE: uploaded by the tenant (Cumulocity rebuilds, third party or custom)
- SHARED: shared across tenants

A PRIVATE application is likely custom-developed when its package name
carries an organization other than Cumulocity, or its metadata points at the
tenant's own domain.

## Queries
    get-applications(type: "HOSTED")
    get-applications(type: "MICROSERVICE")
    get-applications(type: "HOSTED", availability: "PRIVATE")
    get-applications(availability: "PRIVATE")

Widgets cannot be queried directly: list HOSTED applications, then read the
c8y_Manifest of the extension with get-application(id).

get-application-versions(id) lists versions. Only HOSTED applications are
versioned; microservices answer with an error.
`)
}

func (d Deps) tenantContext() Prompt {
	def := mcp.NewPrompt("tenant-context",
		mcp.WithPromptDescription("Get current tenant context including tenantId, domain, and applications. Use before any tenant-specific operations."),
	)
	return d.resolved(def, "Error getting tenant context", func(ctx context.Context, c *c8y.Client, _ map[string]string) (string, error) {
		var tenant map[string]any
		q := url.Values{"withParent": {"true"}}
		if err := c.Get(ctx, "/tenant/currentTenant", q, &tenant); err != nil {
			return "", err
		}
		var user struct {
			UserName       string `json:"userName"`
			Email          string `json:"email"`
			FirstName      string `json:"firstName"`
			LastName       string `json:"lastName"`
			EffectiveRoles []struct {
				Name string `json:"name"`
			} `json:"effectiveRoles"`
		}
		if err := c.Get(ctx, "/user/currentUser", nil, &user); err != nil {
			return "", err
		}

		roles := make([]string, 0, len(user.EffectiveRoles))
		for _, r := range user.EffectiveRoles {
			roles = append(roles, r.Name)
		}
		name := strings.TrimSpace(user.FirstName + " " + user.LastName)
		orDefault := func(s, def string) string {
			if s == "" {
				return def
			}
			return s
		}
		tenantID := field(tenant, "name", "")

		var b strings.Builder
		b.WriteString("# Tenant Context\n\n## Current tenant\n")
		fmt.Fprintf(&b, "- Tenant ID: %s\n- Domain: %s\n- Parent: %s\n- Can create tenants: %s\n\n",
			tenantID, field(tenant, "domainName", "unknown"), field(tenant, "parent", "none"), field(tenant, "allowCreateTenants", "false"))
		b.WriteString("## Current user\n")
		fmt.Fprintf(&b, "- Username: %s\n- Email: %s\n- Name: %s\n- Roles: %s\n\n",
			user.UserName, orDefault(user.Email, "not set"), orDefault(name, "not set"), orDefault(strings.Join(roles, ", "), "none"))
		fmt.Fprintf(&b, "Use tenantId %q for tenant-specific calls.\n", tenantID)
		return b.String(), nil
	})
}
