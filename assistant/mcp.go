package assistant

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/kit"
	"github.com/hazyhaar/uxrefactor/pipeline"
)

// NewMCPServer returns an MCP server with the assistant's tools registered.
func (a *Assistant) NewMCPServer(version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "uxrefactor", Version: version}, nil)
	a.RegisterMCP(srv)
	return srv
}

// RegisterMCP registers the assistant tools on srv.
func (a *Assistant) RegisterMCP(srv *mcp.Server) {
	a.registerAnalyzeURLTool(srv)
	a.registerAnalyzeHTMLTool(srv)
	a.registerListProfilesTool(srv)
	a.registerSaveProfileTool(srv)
	a.registerListAnalysesTool(srv)
	a.registerPrinciplesTool(srv)
}

func (a *Assistant) register(srv *mcp.Server, tool *mcp.Tool, endpoint kit.Endpoint, decode func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error)) {
	kit.RegisterMCPTool(srv, tool, kit.Logging(a.logger, tool.Name)(endpoint), decode)
}

var profileIDProp = map[string]any{"type": "string", "description": "Brand profile ID; the default profile when omitted"}

// analysisView is what tools return: the analysis without the bulky
// source, plus the findings grouped for reading.
type analysisView struct {
	*pipeline.Analysis
	Source string `json:"source,omitempty"`
	Groups any    `json:"groups"`
}

func view(an *pipeline.Analysis) analysisView {
	return analysisView{Analysis: an, Groups: an.Groups()}
}

// --- analyze ---

type analyzeURLReq struct {
	URL       string `json:"url"`
	ProfileID string `json:"profile_id"`
}

func (a *Assistant) registerAnalyzeURLTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "uxrefactor_analyze_url",
		Description: "Capture a web page and report UI findings (contrast, spacing, component misuse, design principles) with revised markup and a diff.",
		InputSchema: kit.InputSchema(map[string]any{
			"url":        map[string]any{"type": "string", "description": "Page URL"},
			"profile_id": profileIDProp,
		}, "url"),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*analyzeURLReq)
		an, err := a.AnalyzeURL(ctx, r.URL, r.ProfileID)
		if err != nil {
			return nil, err
		}
		return view(an), nil
	}
	a.register(srv, tool, endpoint, kit.DecodeJSON[analyzeURLReq]())
}

type analyzeHTMLReq struct {
	HTML      string `json:"html"`
	URL       string `json:"url"`
	ProfileID string `json:"profile_id"`
}

func (a *Assistant) registerAnalyzeHTMLTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "uxrefactor_analyze_html",
		Description: "Analyze HTML markup without a browser. Styles are read from inline style attributes.",
		InputSchema: kit.InputSchema(map[string]any{
			"html":       map[string]any{"type": "string", "description": "Markup to analyze"},
			"url":        map[string]any{"type": "string", "description": "Optional label for history"},
			"profile_id": profileIDProp,
		}, "html"),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*analyzeHTMLReq)
		an, err := a.AnalyzeHTML(ctx, r.URL, r.HTML, r.ProfileID)
		if err != nil {
			return nil, err
		}
		return view(an), nil
	}
	a.register(srv, tool, endpoint, kit.DecodeJSON[analyzeHTMLReq]())
}

// --- profiles ---

func (a *Assistant) registerListProfilesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "uxrefactor_list_profiles",
		Description: "List brand profiles. The first one is the default.",
		InputSchema: kit.InputSchema(map[string]any{}),
	}
	endpoint := func(ctx context.Context, _ any) (any, error) {
		if _, err := a.store.GetDefault(ctx); err != nil {
			return nil, err
		}
		ps, err := a.store.ListProfiles(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"profiles": ps}, nil
	}
	a.register(srv, tool, endpoint, kit.DecodeJSON[struct{}]())
}

func (a *Assistant) registerSaveProfileTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "uxrefactor_save_profile",
		Description: "Create or update a brand profile. Omit id to create one.",
		InputSchema: kit.InputSchema(map[string]any{
			"id":              map[string]any{"type": "string"},
			"name":            map[string]any{"type": "string"},
			"primary_color":   map[string]any{"type": "string", "description": "Hex color"},
			"secondary_color": map[string]any{"type": "string", "description": "Hex color"},
			"accent_colors":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"font_family":     map[string]any{"type": "string"},
			"spacing_scale":   map[string]any{"type": "array", "items": map[string]any{"type": "number"}},
		}, "name", "primary_color", "secondary_color", "spacing_scale"),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		p := req.(*brand.Profile)
		if err := a.store.SaveProfile(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}
	a.register(srv, tool, endpoint, kit.DecodeJSON[brand.Profile]())
}

// --- history ---

type listAnalysesReq struct {
	Limit int `json:"limit"`
}

func (a *Assistant) registerListAnalysesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "uxrefactor_list_analyses",
		Description: "List recent analyses, newest first.",
		InputSchema: kit.InputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Maximum entries"},
		}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*listAnalysesReq)
		if r.Limit <= 0 {
			r.Limit = a.cfg.HistoryLimit
		}
		list, err := a.store.ListAnalyses(ctx, r.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"analyses": list}, nil
	}
	a.register(srv, tool, endpoint, kit.DecodeJSON[listAnalysesReq]())
}

// --- principles ---

type principlesReq struct {
	Category    string `json:"category"`
	ElementType string `json:"element_type"`
}

func (a *Assistant) registerPrinciplesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "uxrefactor_principles",
		Description: "List design principles, optionally by category or by element type (button, input, form, navigation, modal).",
		InputSchema: kit.InputSchema(map[string]any{
			"category":     map[string]any{"type": "string"},
			"element_type": map[string]any{"type": "string"},
		}),
	}
	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*principlesReq)
		if r.ElementType != "" {
			return map[string]any{"principles": recommend(r.ElementType)}, nil
		}
		ps, err := Principles(r.Category)
		if err != nil {
			return nil, err
		}
		return map[string]any{"principles": ps}, nil
	}
	a.register(srv, tool, endpoint, kit.DecodeJSON[principlesReq]())
}
