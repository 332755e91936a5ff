// Package profile holds the compiled-in narrative and policy recommendation
// for each equity cluster.
package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/faskes-equity/internal/cluster"
	"github.com/sells-group/faskes-equity/internal/model"
)

// KnowledgeBase maps cluster ids to profiles. It is read-only after New.
type KnowledgeBase struct {
	profiles map[model.ClusterID]model.ClusterProfile
}

// New builds a KnowledgeBase from profiles, rendering each Recommendation
// from its characteristics and actions when it is empty.
func New(profiles []model.ClusterProfile) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{profiles: make(map[model.ClusterID]model.ClusterProfile, len(profiles))}
	for _, p := range profiles {
		if _, dup := kb.profiles[p.ID]; dup {
			return nil, eris.Wrapf(cluster.ErrConfiguration, "profile: duplicate profile for cluster %d", p.ID)
		}
		if p.Recommendation == "" {
			p.Recommendation = Render(p)
		}
		kb.profiles[p.ID] = p
	}
	return kb, nil
}

// Default returns the knowledge base for the three-cluster facility equity model.
func Default() *KnowledgeBase {
	kb, err := New(defaultProfiles)
	if err != nil {
		panic(err) // static table
	}
	return kb
}

// Describe returns the profile for id.
func (kb *KnowledgeBase) Describe(id model.ClusterID) (model.ClusterProfile, error) {
	if kb == nil {
		return model.ClusterProfile{}, eris.Wrap(cluster.ErrModelNotLoaded, "profile: knowledge base not loaded")
	}
	p, ok := kb.profiles[id]
	if !ok {
		return model.ClusterProfile{}, eris.Wrapf(cluster.ErrUnknownCluster, "profile: no profile for cluster %d", id)
	}
	return p, nil
}

// Validate checks that every id in [0, k) has a usable profile.
func (kb *KnowledgeBase) Validate(k int) error {
	if kb == nil {
		return eris.Wrap(cluster.ErrModelNotLoaded, "profile: knowledge base not loaded")
	}
	if k <= 0 {
		return eris.Wrapf(cluster.ErrConfiguration, "profile: cluster count must be positive, got %d", k)
	}
	var errs []string
	for i := 0; i < k; i++ {
		p, ok := kb.profiles[model.ClusterID(i)]
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("cluster %d has no profile", i))
		case strings.TrimSpace(p.Name) == "":
			errs = append(errs, fmt.Sprintf("cluster %d has no name", i))
		case strings.TrimSpace(p.Recommendation) == "":
			errs = append(errs, fmt.Sprintf("cluster %d has no recommendation", i))
		}
	}
	if len(errs) > 0 {
		return eris.Wrapf(cluster.ErrConfiguration, "profile: %s", strings.Join(errs, "; "))
	}
	return nil
}

// All returns every profile sorted by cluster id.
func (kb *KnowledgeBase) All() []model.ClusterProfile {
	if kb == nil {
		return nil
	}
	out := make([]model.ClusterProfile, 0, len(kb.profiles))
	for _, p := range kb.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Render formats a profile's headline, characteristics, and actions as markdown.
func Render(p model.ClusterProfile) string {
	var b strings.Builder
	if p.Headline != "" {
		fmt.Fprintf(&b, "### %s\n\n", p.Headline)
	}
	if len(p.Characteristics) > 0 {
		b.WriteString("**Karakteristik Wilayah:**\n")
		for _, c := range p.Characteristics {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}
	if len(p.Actions) > 0 {
		b.WriteString("**Rekomendasi Kebijakan:**\n")
		for _, a := range p.Actions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	return strings.TrimSpace(b.String())
}
