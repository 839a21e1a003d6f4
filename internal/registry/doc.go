// Package registry maintains the mapping from action names to callables,
// tool descriptors, and retry policies for a tool-calling orchestrator.
//
// Each registered callable comes with a declarative parameter list from
// which the registry derives a JSON-Schema-shaped input description using a
// two-tier strategy: a structured schema model reflected from the parameter
// declarations, with a fixed primitive-type mapping as fallback when the
// model cannot express a declaration. Registration is total: it degrades to
// a best-effort schema instead of failing, so the registry is always left in
// a consistent state.
//
// The descriptor shape consumed by orchestrators:
//
//	{
//	  "name": "google_calendars::list_events",
//	  "description": "Execute list_events action from google_calendars addon",
//	  "input_schema": {"type": "object", "properties": {...}, "required": [...]}
//	}
package registry
