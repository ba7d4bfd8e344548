// Package prompts holds the usage guides offered as MCP prompts. Some of
// them read from the platform to tailor the guide to one device or tenant.
package prompts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"c8ymcp/internal/c8y"
)

const tenantURLArg = "tenantUrl"

// ClientResolver opens a platform client for the current call.
// *resolver.Resolver satisfies it.
type ClientResolver interface {
	Resolve(ctx context.Context, explicitTenantURL string) (*c8y.Client, error)
}

type Deps struct {
	Resolver ClientResolver
	// SingleUser adds a required tenantUrl argument to tenant-bound prompts.
	SingleUser bool
	Log        *zap.SugaredLogger
	// Now is consulted each time a date-dependent guide is rendered; nil
	// means time.Now.
	Now func() time.Time
}

type Prompt struct {
	Def     mcp.Prompt
	Handler server.PromptHandlerFunc
}

// Register adds prompts to s.
func Register(s *server.MCPServer, prompts []Prompt) {
	for _, p := range prompts {
		s.AddPrompt(p.Def, p.Handler)
	}
}

// All returns every prompt in a stable order.
func All(d Deps) []Prompt {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}
	return []Prompt{
		dateTimeGuide(d.Now),
		calculateDateRange(d.Now),

		d.tenantBound(findDevices()),
		d.tenantBound(inventoryQuery()),
		deviceHierarchy(),
		d.lookupDevice(),

		measurementsGuide(),
		d.analyzeMeasurements(),
		measurementTimeRange(d.Now),

		eventsGuide(),
		d.deviceEventTypes(),

		alarmsGuide(),
		d.tenantBound(alarmStatus()),

		metadataGuide(),

		d.tenantContext(),
		d.tenantBound(auditQuery()),
		d.tenantBound(applicationsGuide()),
	}
}

func static(name, desc, body string) Prompt {
	return Prompt{
		Def: mcp.NewPrompt(name, mcp.WithPromptDescription(desc)),
		Handler: func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return message(desc, body), nil
		},
	}
}

func message(desc, body string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(desc, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(body)),
	})
}

func tenantArgument() mcp.PromptArgument {
	return mcp.PromptArgument{
		Name:        tenantURLArg,
		Description: "The Cumulocity tenant URL against which the operation is executed, e.g. https://my-tenant.cumulocity.com",
		Required:    true,
	}
}

// tenantBound adds the tenantUrl argument in single-user mode.
func (d Deps) tenantBound(p Prompt) Prompt {
	if d.SingleUser {
		p.Def.Arguments = append(p.Def.Arguments, tenantArgument())
	}
	return p
}

type renderFunc func(ctx context.Context, c *c8y.Client, args map[string]string) (string, error)

// resolved builds a prompt that renders from live platform data. Resolve and
// render failures come back as the prompt text, prefixed with failure, so the
// conversation can continue.
func (d Deps) resolved(def mcp.Prompt, failure string, render renderFunc) Prompt {
	p := d.tenantBound(Prompt{Def: def})
	desc := def.Description
	p.Handler = func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		if err := checkRequired(p.Def, args); err != nil {
			return nil, err
		}
		fail := func(err error) (*mcp.GetPromptResult, error) {
			d.Log.Infow("prompt failed", "prompt", def.Name, "err", err)
			return message(desc, failure+": "+err.Error()), nil
		}
		c, err := d.Resolver.Resolve(ctx, args[tenantURLArg])
		if err != nil {
			return fail(err)
		}
		text, err := render(ctx, c, args)
		if err != nil {
			return fail(err)
		}
		return message(desc, text), nil
	}
	return p
}

// checkRequired rejects calls missing a required argument. tenantUrl is left
// to the resolver, which reports its own error for it.
func checkRequired(def mcp.Prompt, args map[string]string) error {
	for _, a := range def.Arguments {
		if a.Required && a.Name != tenantURLArg && args[a.Name] == "" {
			return fmt.Errorf("missing required argument %q", a.Name)
		}
	}
	return nil
}

func alarmsGuide() Prompt {
	return static("alarms-guide", "Learn about alarm monitoring in Cumulocity.", `# Alarm Monitoring

Alarms flag conditions that need attention: device failures, threshold
violations, lost connections, low batteries.

## Severity
| Severity | Meaning |
|----------|---------|
| CRITICAL | Act immediately |
| MAJOR    | Significant problem |
| MINOR    | Minor issue |
| WARNING  | Possible problem |

## Status
| Status       | Meaning |
|--------------|---------|
| ACTIVE       | Unresolved |
| ACKNOWLEDGED | Seen, not fixed |
| CLEARED      | Resolved |

## Workflow
1. get-alarms(status: "ACTIVE") lists everything unresolved. ACTIVE is the default.
2. get-alarms(status: "ACTIVE", severity: "CRITICAL") narrows to urgent issues.
3. get-alarms(deviceId: "12345") restricts to one device; add withSourceDevices
   to include alarms raised by its children.
4. get-alarms(dateFrom: "...", dateTo: "...") looks back in time.
5. get-alarm-counts(deviceId: "12345") gives per-severity totals without
   fetching the alarms.

Use select to keep answers short, e.g. select: "[].{severity: severity, text: text}".
`)
}

func eventsGuide() Prompt {
	return static("events-guide", "Learn about querying events in Cumulocity.", `# Events

Events record what happened on a device: configuration changes, state
transitions, location updates, application events. Unlike alarms they carry
no severity or status.

## Querying
    get-events(deviceId: "12345", pageSize: 20)
    get-events(deviceId: "12345", type: "c8y_LocationUpdate")
    get-events(deviceId: "12345", dateFrom: "2024-01-01T00:00:00Z", dateTo: "2024-01-31T23:59:59Z")

Call get-event-types(deviceId: "12345") first when the type names are
unknown; it samples the latest 100 events.
`)
}

func measurementsGuide() Prompt {
	return static("measurements-guide", "Learn how to query measurements effectively.", `# Measurements

A device can hold millions of measurements. Always query one device.

## Workflow
1. Find the device with query-inventory or get-object.
2. get-supported-series(deviceId: "12345") lists series such as
   "c8y_Temperature.T" or "c8y_Battery.level" (fragment.series).
3. get-measurements(deviceId: "12345", pageSize: 10) shows recent values.
4. Pass valueFragmentType and valueFragmentSeries to read one series.
5. Use dateFrom/dateTo (ISO 8601) for a time window; revert: true returns
   the oldest first.
6. get-measurement-stats computes count, min, max and average of one series
   over a window of up to 2000 measurements.
`)
}

var inventoryExamples = map[string]string{
	"filter": `## Filters
    $filter=has(c8y_IsDevice)                        all devices
    $filter=(name eq 'MyDevice')                     exact name
    $filter=(name eq 'Sensor*')                      name wildcard
    $filter=(type eq 'c8y_Linux')                    by type
    $filter=has(c8y_IsDevice) and (name eq 'Test*')  combined
`,
	"has": `## Fragment presence
    $filter=has(c8y_IsDevice)
    $filter=has(c8y_IsDeviceGroup)
    $filter=has(c8y_Position)
    $filter=has(c8y_Dashboard)
`,
	"search": `## Text search
    $filter=contains(name,'Pump')
    $filter=startswith(name,'Line 1')
`,
	"hierarchy": `## Hierarchy
    $filter=bygroupid(12345)                         direct members of a group
Use list-children(id: "12345") to walk assets, devices or additions.
`,
	"nested": `## Nested properties
    $filter=(c8y_Hardware.model eq 'RPi 4')
    $filter=(c8y_Availability.status eq 'UNAVAILABLE')
    $orderby=name asc
`,
}

func inventoryQuery() Prompt {
	const desc = "Get help constructing OData inventory queries. OData syntax only works for inventory, not measurements, events or alarms."
	def := mcp.NewPrompt("inventory-query",
		mcp.WithPromptDescription(desc),
		mcp.WithArgument("queryType", mcp.ArgumentDescription("One of filter, has, search, hierarchy, nested. Omit for all.")),
	)
	return Prompt{
		Def: def,
		Handler: func(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			var b strings.Builder
			b.WriteString("# Inventory Queries\n\nPass the query to query-inventory(query: \"...\").\n\n")
			kind := req.Params.Arguments["queryType"]
			if kind != "" {
				ex, ok := inventoryExamples[kind]
				if !ok {
					return nil, fmt.Errorf("unknown queryType %q", kind)
				}
				b.WriteString(ex)
			} else {
				for _, k := range []string{"filter", "has", "search", "hierarchy", "nested"} {
					b.WriteString(inventoryExamples[k])
					b.WriteString("\n")
				}
			}
			b.WriteString("\nNever list the whole inventory; there may be many thousands of objects.\n")
			return message(desc, b.String()), nil
		},
	}
}

func dateTimeGuide(now func() time.Time) Prompt {
	const desc = "Learn how to work with dates and time ranges in Cumulocity queries"
	return Prompt{
		Def: mcp.NewPrompt("datetime-guide", mcp.WithPromptDescription(desc)),
		Handler: func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return message(desc, dateTimeBody(now().UTC())), nil
		},
	}
}

func dateTimeBody(t time.Time) string {
	iso := func(t time.Time) string { return t.Format("2006-01-02T15:04:05.000Z") }
	startOfDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)

	var b strings.Builder
	fmt.Fprintf(&b, "# Dates and Time Ranges\n\n## Now\n- Date: %s\n- Time: %s\n\n", t.Format("2006-01-02"), iso(t))
	b.WriteString("## Format\nAll date parameters use ISO 8601, e.g. \"2024-01-15\", \"2024-01-15T14:30:00.000Z\" or \"2024-01-15T14:30:00+01:00\".\n\n")
	b.WriteString("## Common ranges (dateFrom .. dateTo)\n")
	ranges := []struct {
		label    string
		from, to time.Time
	}{
		{"Past hour", t.Add(-time.Hour), t},
		{"Past 24 hours", t.Add(-24 * time.Hour), t},
		{"Today", startOfDay, t},
		{"Yesterday", startOfDay.AddDate(0, 0, -1), startOfDay},
		{"Past 7 days", t.AddDate(0, 0, -7), t},
		{"Past 30 days", t.AddDate(0, 0, -30), t},
		{"This month", startOfMonth, t},
		{"Last month", startOfMonth.AddDate(0, -1, 0), startOfMonth},
	}
	for _, r := range ranges {
		fmt.Fprintf(&b, "- %s: %s .. %s\n", r.label, iso(r.from), iso(r.to))
	}
	b.WriteString("\nPrefer narrow windows: measurements and events grow quickly.\n")
	return b.String()
}
