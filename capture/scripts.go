package capture

import (
	"encoding/json"
	"strings"

	"github.com/hazyhaar/uxrefactor/extract"
)

// hookScript installs a minimal component-tree hook before page scripts
// run, so renderers that look for one register with it and report their
// committed roots.
const hookScript = `(() => {
	if (window.__REACT_DEVTOOLS_GLOBAL_HOOK__) return;
	const roots = new Map();
	window.__REACT_DEVTOOLS_GLOBAL_HOOK__ = {
		renderers: new Map(),
		supportsFiber: true,
		inject(renderer) {
			const id = this.renderers.size + 1;
			this.renderers.set(id, renderer);
			return id;
		},
		onCommitFiberRoot(id, root) {
			if (!roots.has(id)) roots.set(id, new Set());
			roots.get(id).add(root);
		},
		onCommitFiberUnmount() {},
		onPostCommitFiberRoot() {},
		checkDCE() {},
		getFiberRoots(id) {
			return roots.get(id) || new Set();
		},
	};
})()`

const probeAvailableScript = `() => {
	const hook = window.__REACT_DEVTOOLS_GLOBAL_HOOK__;
	if (!hook || !hook.renderers || hook.renderers.size === 0) return false;
	const id = hook.renderers.keys().next().value;
	const roots = hook.getFiberRoots ? hook.getFiberRoots(id) : null;
	return !!(roots && roots.size > 0);
}`

// probeTreeScript walks the first renderer's first root depth first and
// returns the tree as JSON. Node and depth caps keep pathological trees
// from stalling the page.
const probeTreeScript = `() => {
	const hook = window.__REACT_DEVTOOLS_GLOBAL_HOOK__;
	const id = hook.renderers.keys().next().value;
	const root = hook.getFiberRoots(id).values().next().value;
	let budget = 5000;
	function name(f) {
		const t = f.type;
		if (!t) return 'Unknown';
		if (typeof t === 'string') return t;
		return t.name || t.displayName || 'Unknown';
	}
	function props(f) {
		const out = [];
		const p = f.memoizedProps;
		if (!p || typeof p !== 'object') return out;
		for (const [key, value] of Object.entries(p)) {
			if (key === 'children' || value === undefined) continue;
			let v;
			try { v = JSON.stringify(value); } catch (e) { continue; }
			if (v === undefined) continue;
			out.push({ key, value: JSON.parse(v) });
		}
		return out;
	}
	function walk(f, depth) {
		if (!f || budget-- <= 0 || depth > 200) return null;
		const node = { name: name(f), props: props(f), children: [] };
		for (let c = f.child; c; c = c.sibling) {
			const n = walk(c, depth + 1);
			if (n) node.children.push(n);
		}
		return node;
	}
	return JSON.stringify(walk(root.current, 0));
}`

// snapshotScript collects the computed view of every inspected element
// under the extraction root: the first match of rootSelector, else body.
// Unsupported selectors fall back to body, as extract.Root does.
func snapshotScript(rootSelector string) string {
	sel, _ := json.Marshal(extract.Selector(rootSelector))
	tags, _ := json.Marshal(strings.Join(selectorTags(), ", "))
	return `() => {
	const sel = ` + string(sel) + `, tags = ` + string(tags) + `;
	const root = (sel && document.querySelector(sel)) || document.body || document.documentElement;
	const els = Array.from(root.querySelectorAll(tags));
	if (root.matches(tags)) els.unshift(root);
	const out = [];
	els.forEach(el => {
		const s = window.getComputedStyle(el);
		const r = el.getBoundingClientRect();
		out.push({
			tag: el.tagName.toLowerCase(),
			rect: { x: r.x, y: r.y, width: r.width, height: r.height },
			has_layout: true,
			background: s.backgroundColor,
			color: s.color,
			margin: parseFloat(s.margin) || 0,
			padding: parseFloat(s.padding) || 0,
			font_size: parseFloat(s.fontSize) || 0,
			font_weight: parseInt(s.fontWeight) || 400,
			font_family: s.fontFamily,
			outline: s.outline,
			box_shadow: s.boxShadow,
			child_count: el.children.length,
			outer_html: el.outerHTML,
			text: el.textContent || '',
		});
	});
	return JSON.stringify(out);
}`
}

const documentScript = `() => document.documentElement.outerHTML`

const titleScript = `() => document.title`
