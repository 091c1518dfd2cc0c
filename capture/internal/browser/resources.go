package browser

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceAliases maps configured names onto CDP resource types. Plural
// and singular spellings are both accepted.
var resourceAliases = map[string]proto.NetworkResourceType{
	"fonts":       proto.NetworkResourceTypeFont,
	"images":      proto.NetworkResourceTypeImage,
	"media":       proto.NetworkResourceTypeMedia,
	"stylesheets": proto.NetworkResourceTypeStylesheet,
	"scripts":     proto.NetworkResourceTypeScript,
}

// resourceSet is the set of resource types a tab refuses to load.
type resourceSet map[proto.NetworkResourceType]bool

func newResourceSet(names []string) resourceSet {
	set := make(resourceSet, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if t, ok := resourceAliases[name]; ok {
			set[t] = true
			continue
		}
		if t, ok := resourceAliases[name+"s"]; ok {
			set[t] = true
			continue
		}
		// any other CDP type by name: xhr, fetch, websocket, ...
		for _, t := range []proto.NetworkResourceType{
			proto.NetworkResourceTypeXHR, proto.NetworkResourceTypeFetch,
			proto.NetworkResourceTypeWebSocket, proto.NetworkResourceTypeManifest,
		} {
			if strings.EqualFold(string(t), name) {
				set[t] = true
			}
		}
	}
	return set
}

func (s resourceSet) blocks(t proto.NetworkResourceType) bool { return s[t] }

// interceptRequests fails requests whose type is in blocked and lets the
// rest through. The returned router runs until stopped; Tab.Close stops it.
func interceptRequests(page *rod.Page, blocked resourceSet) *rod.HijackRouter {
	router := page.HijackRequests()
	router.MustAdd("*", func(h *rod.Hijack) {
		if blocked.blocks(h.Request.Type()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return router
}
