// Package session orchestrates one modding session: stage candidate
// files per category, run the category substitution rules, keep the
// changelog current and prune the repack directory afterwards.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sm0kydev/skingraft/internal/utils"
	"github.com/sm0kydev/skingraft/pkg/catalog"
	"github.com/sm0kydev/skingraft/pkg/changelog"
	"github.com/sm0kydev/skingraft/pkg/hexpatch"
	"github.com/sm0kydev/skingraft/pkg/history"
	"github.com/sm0kydev/skingraft/pkg/skindex"
	"github.com/sm0kydev/skingraft/pkg/staging"
)

// Paths holds the six resolved locations the collaborator hands to the
// core: the four per-category source directories, the repack working
// directory and the skin index file.
type Paths struct {
	GunSkins  string
	HitEffect string
	Lootbox   string
	Icon      string
	Repack    string
	SkinIndex string
}

// Session owns the per-session state. Index may be nil, in which case
// icon modding is disabled and the other categories proceed.
type Session struct {
	Paths     Paths
	Catalog   []catalog.GunRecord
	Index     *skindex.Index
	Changelog *changelog.Changelog
	History   *history.DB // optional audit trail

	modified map[string]struct{}
}

// Result reports what a graft changed: the produced log lines and the
// names of the modified repack files.
type Result struct {
	Lines    []string
	Modified []string
}

func New(paths Paths, records []catalog.GunRecord, idx *skindex.Index, cl *changelog.Changelog, hist *history.DB) *Session {
	return &Session{
		Paths:     paths,
		Catalog:   records,
		Index:     idx,
		Changelog: cl,
		History:   hist,
		modified:  make(map[string]struct{}),
	}
}

// Graft transplants target's assets onto source's weapon: every category
// rule rewrites occurrences of the relevant fingerprints in the staged
// files. Expected absences (fingerprint not found, unresolvable skin
// index) are informational, not errors.
func (s *Session) Graft(ctx context.Context, source, target catalog.GunRecord) (Result, error) {
	var res Result

	srcFP, err := source.Fingerprint()
	if err != nil {
		return res, fmt.Errorf("source gun %q: %w", source.Name, err)
	}
	dstFP, err := target.Fingerprint()
	if err != nil {
		return res, fmt.Errorf("target gun %q: %w", target.Name, err)
	}

	heSrc, heDst := s.hitEffectPair(source, target)
	heSrcFP, err := heSrc.Fingerprint()
	if err != nil {
		return res, fmt.Errorf("hit-effect source %q: %w", heSrc.Name, err)
	}
	heDstFP, err := heDst.Fingerprint()
	if err != nil {
		return res, fmt.Errorf("hit-effect target %q: %w", heDst.Name, err)
	}

	// Fresh claim map per graft: repack ownership is a per-pass notion.
	claims := make(staging.ClaimMap)
	s.stage(staging.GunSkins, s.Paths.GunSkins, [][]byte{srcFP, dstFP}, claims)
	s.stage(staging.HitEffect, s.Paths.HitEffect, [][]byte{heSrcFP, heDstFP}, claims)
	s.stage(staging.Lootbox, s.Paths.Lootbox, [][]byte{srcFP, dstFP}, claims)
	s.stage(staging.Icon, s.Paths.Icon, [][]byte{srcFP, dstFP}, claims)

	s.graftGunSkins(ctx, &res, claims, source, target, srcFP, dstFP)
	s.graftDirect(ctx, &res, claims, staging.HitEffect, source, target, heSrc.Hex, heDst.Hex, heSrcFP, heDstFP)
	s.graftDirect(ctx, &res, claims, staging.Lootbox, source, target, source.Hex, target.Hex, srcFP, dstFP)
	s.graftIcon(ctx, &res, claims, source, target, srcFP, dstFP)

	return res, nil
}

func (s *Session) stage(cat staging.Category, dir string, fingerprints [][]byte, claims staging.ClaimMap) {
	if _, err := staging.Stage(cat, dir, s.Paths.Repack, fingerprints, claims); err != nil {
		utils.Log.Warnf("%v", err)
	}
}

// hitEffectPair resolves the fingerprint redirects for hit-effect
// modding: a leveled source uses its (Lv. 5) variant, a Default target
// uses the same weapon's dedicated hit-effect entry.
func (s *Session) hitEffectPair(source, target catalog.GunRecord) (catalog.GunRecord, catalog.GunRecord) {
	heSrc, heDst := source, target
	if _, leveled := catalog.Level(source.Name); leveled {
		if v, ok := catalog.FindLevelVariant(s.Catalog, source.Name, 5); ok {
			heSrc = v
		}
	}
	if strings.Contains(strings.ToLower(target.Name), "default") {
		if v, ok := catalog.FindHitEffectVariant(s.Catalog, target.Name); ok {
			heDst = v
		}
	}
	return heSrc, heDst
}

// graftGunSkins runs the cross-file long-hex rule over the staged
// gun-skin files as one batch.
func (s *Session) graftGunSkins(ctx context.Context, res *Result, claims staging.ClaimMap, source, target catalog.GunRecord, srcFP, dstFP []byte) {
	names := claims.Files(staging.GunSkins)
	sort.Strings(names)
	if len(names) == 0 {
		utils.Log.Infof("[%s] no staged files", staging.GunSkins)
		return
	}

	files := make(map[string][]byte, len(names))
	ordered := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.Paths.Repack, name))
		if err != nil {
			utils.Log.Warnf("[%s] %s: %v", staging.GunSkins, name, err)
			continue
		}
		files[name] = data
		ordered = append(ordered, data)
	}

	longHex, ok := hexpatch.ExtractLongHex(ordered, srcFP)
	if !ok {
		utils.Log.Infof("[%s] fingerprint '%s' not found in any staged file", staging.GunSkins, source.Hex)
		return
	}

	total := 0
	for _, name := range names {
		data, ok := files[name]
		if !ok {
			continue
		}
		out, n := hexpatch.ApplyLongHex(data, dstFP, longHex)
		if n == 0 {
			continue
		}
		total += n
		text := fmt.Sprintf("reapplied long hex '%x' over %d occurrence(s) of '%s'.", longHex, n, target.Hex)
		s.commit(ctx, res, staging.GunSkins, name, out, text, source, target)
	}
	if total == 0 {
		utils.Log.Infof("[%s] no qualifying occurrence of '%s'", staging.GunSkins, target.Hex)
	}
}

// graftDirect runs the plain global-replace rule (hit effect, lootbox)
// file by file.
func (s *Session) graftDirect(ctx context.Context, res *Result, claims staging.ClaimMap, cat staging.Category, source, target catalog.GunRecord, srcHex, dstHex string, srcFP, dstFP []byte) {
	names := claims.Files(cat)
	sort.Strings(names)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.Paths.Repack, name))
		if err != nil {
			utils.Log.Warnf("[%s] %s: %v", cat, name, err)
			continue
		}
		out, changed := hexpatch.Replace(data, srcFP, dstFP)
		if !changed {
			utils.Log.Infof("[%s] %s: fingerprint '%s' not found", cat, name, srcHex)
			continue
		}
		text := fmt.Sprintf("replaced hex '%s' with '%s'.", srcHex, dstHex)
		s.commit(ctx, res, cat, name, out, text, source, target)
	}
}

// graftIcon runs the zone-scoped secondary substitution. Needs both gun
// names resolvable in the skin index; a miss disables just this category.
func (s *Session) graftIcon(ctx context.Context, res *Result, claims staging.ClaimMap, source, target catalog.GunRecord, srcFP, dstFP []byte) {
	if s.Index.Len() == 0 {
		utils.Log.Infof("[%s] skin index unavailable, icon modding disabled", staging.Icon)
		return
	}

	srcIdxHex, ok := s.Index.Resolve(source.Name)
	if !ok {
		utils.Log.Infof("[%s] no skin index entry for %q", staging.Icon, source.Name)
		return
	}
	dstIdxHex, ok := s.Index.Resolve(target.Name)
	if !ok {
		utils.Log.Infof("[%s] no skin index entry for %q", staging.Icon, target.Name)
		return
	}

	srcIdx, err := hexpatch.ParseFingerprint(srcIdxHex)
	if err != nil {
		utils.Log.Warnf("[%s] %v", staging.Icon, err)
		return
	}
	dstIdx, err := hexpatch.ParseFingerprint(dstIdxHex)
	if err != nil {
		utils.Log.Warnf("[%s] %v", staging.Icon, err)
		return
	}

	names := claims.Files(staging.Icon)
	sort.Strings(names)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.Paths.Repack, name))
		if err != nil {
			utils.Log.Warnf("[%s] %s: %v", staging.Icon, name, err)
			continue
		}
		out, changed := hexpatch.ReplaceIcon(data, srcFP, dstFP, srcIdx, dstIdx)
		if !changed {
			utils.Log.Infof("[%s] %s: fingerprint '%s' not found", staging.Icon, name, source.Hex)
			continue
		}
		text := fmt.Sprintf("replaced icon hex '%s' with '%s' (index '%s' -> '%s').", source.Hex, target.Hex, srcIdxHex, dstIdxHex)
		s.commit(ctx, res, staging.Icon, name, out, text, source, target)
	}
}

// commit rewrites a repack file in place and records the mutation in the
// result, the changelog and (when configured) the history database.
func (s *Session) commit(ctx context.Context, res *Result, cat staging.Category, name string, data []byte, text string, source, target catalog.GunRecord) {
	if err := os.WriteFile(filepath.Join(s.Paths.Repack, name), data, 0644); err != nil {
		utils.Log.Warnf("[%s] %s: %v", cat, name, err)
		return
	}

	line := fmt.Sprintf("[%s] %s: %s", cat, name, text)
	res.Lines = append(res.Lines, line)
	res.Modified = append(res.Modified, name)
	s.modified[name] = struct{}{}
	s.Changelog.Append(cat.String(), name, text)

	if s.History != nil {
		err := s.History.Record(ctx, history.Event{
			Category:  cat.String(),
			FileName:  name,
			SourceGun: source.Name,
			TargetGun: target.Name,
			Detail:    text,
		})
		if err != nil {
			utils.Log.Warnf("history: %v", err)
		}
	}
}

// Prune removes repack files that neither this session modified nor the
// changelog preserves. Returns the removed names.
func (s *Session) Prune() ([]string, error) {
	entries, err := os.ReadDir(s.Paths.Repack)
	if err != nil {
		return nil, fmt.Errorf("prune: %w", err)
	}

	keep := s.Changelog.FileNames()
	var removed []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if _, ok := s.modified[name]; ok {
			continue
		}
		if _, ok := keep[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.Paths.Repack, name)); err != nil {
			utils.Log.Warnf("prune %s: %v", name, err)
			continue
		}
		removed = append(removed, name)
	}
	return removed, nil
}
