package voting

import "sort"

// Voter is one source-language candidate contributing mass to a target word
// within a single topic (spec.md §4.6). Ctx carries the per-voter context
// keys (VOTER_ID, SCORE_CANDIDATE, RANK, ...); the translation engine
// populates it before invoking a Voting, and provider overlays (§4.6) are
// applied on top before that.
type Voter struct {
	ID  int
	Ctx *Context
}

// AssembleVoterContexts seeds the per-voter contexts for one candidate word:
// scoreOf gives each voter's SCORE_CANDIDATE, hasTranslation/isOrigin flag
// per-voter booleans, importance supplies IMPORTANCE (default 1.0 when nil).
// Ranks are assigned by SCORE_CANDIDATE descending, ties broken by
// ascending voter id, matching the tie-break spec.md §4.6 specifies.
func AssembleVoterContexts(ids []int, scoreOf func(id int) float64, hasTranslation func(id int) bool, isOriginWord func(id int) bool, importance func(id int) float64) []*Voter {
	voters := make([]*Voter, len(ids))
	for i, id := range ids {
		voters[i] = &Voter{ID: id, Ctx: NewContext()}
	}
	order := make([]int, len(voters))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		sa, sb := scoreOf(voters[order[a]].ID), scoreOf(voters[order[b]].ID)
		if sa != sb {
			return sa > sb
		}
		return voters[order[a]].ID < voters[order[b]].ID
	})
	rankOf := make(map[int]int, len(voters))
	for rank, idx := range order {
		rankOf[voters[idx].ID] = rank + 1
	}

	translatedOrder := make([]int, 0, len(voters))
	for _, idx := range order {
		if hasTranslation(voters[idx].ID) {
			translatedOrder = append(translatedOrder, idx)
		}
	}
	realRankOf := make(map[int]int, len(translatedOrder))
	for rank, idx := range translatedOrder {
		realRankOf[voters[idx].ID] = rank + 1
	}

	for _, v := range voters {
		score := scoreOf(v.ID)
		rank := rankOf[v.ID]
		imp := 1.0
		if importance != nil {
			imp = importance(v.ID)
		}
		v.Ctx.Set(VarVoterID, float64(v.ID))
		v.Ctx.Set(VarCandidateID, float64(v.ID))
		v.Ctx.Set(VarHasTranslation, hasTranslation(v.ID))
		v.Ctx.Set(VarIsOriginWord, isOriginWord(v.ID))
		v.Ctx.Set(VarScoreCandidate, score)
		v.Ctx.Set(VarRank, float64(rank))
		v.Ctx.Set(VarReciprocalRank, 1.0/float64(rank))
		if realRank, ok := realRankOf[v.ID]; ok {
			v.Ctx.Set(VarRealReciprocalRank, 1.0/float64(realRank))
		} else {
			v.Ctx.Set(VarRealReciprocalRank, 0.0)
		}
		v.Ctx.Set(VarImportance, imp)
		v.Ctx.Set(VarScore, score)
	}
	return voters
}

// LimitVoters truncates voters to the top-n by SCORE_CANDIDATE descending,
// stable on id — the `.limit(n)` decorator every built-in voting supports.
func LimitVoters(voters []*Voter, n int) []*Voter {
	if n <= 0 || n >= len(voters) {
		return voters
	}
	sorted := make([]*Voter, len(voters))
	copy(sorted, voters)
	sort.SliceStable(sorted, func(a, b int) bool {
		sa, _ := sorted[a].Ctx.Get(VarScoreCandidate)
		sb, _ := sorted[b].Ctx.Get(VarScoreCandidate)
		fa, _ := asFloat(sa)
		fb, _ := asFloat(sb)
		if fa != fb {
			return fa > fb
		}
		return sorted[a].ID < sorted[b].ID
	})
	return sorted[:n]
}
