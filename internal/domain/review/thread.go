package review

import (
	"sort"
)

// Node 评论树节点
type Node struct {
	View
	ViewerVote VoteType
	Replies    []*Node
}

// BuildThreads 把平铺的评论组装成树：顶层评论最新在前，回复按时间正序
// 父评论不在列表中的回复会被丢弃
func BuildThreads(views []View, votes map[uint]VoteType) []*Node {
	nodes := make(map[uint]*Node, len(views))
	for i := range views {
		nodes[views[i].ID] = &Node{View: views[i], ViewerVote: votes[views[i].ID]}
	}

	var roots []*Node
	for i := range views {
		n := nodes[views[i].ID]
		if n.ParentReviewID == nil {
			roots = append(roots, n)
			continue
		}
		if parent, ok := nodes[*n.ParentReviewID]; ok {
			parent.Replies = append(parent.Replies, n)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].CreatedAt.Equal(roots[j].CreatedAt) {
			return roots[i].ID > roots[j].ID
		}
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	for _, n := range nodes {
		sort.SliceStable(n.Replies, func(i, j int) bool {
			a, b := n.Replies[i], n.Replies[j]
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
	}
	if roots == nil {
		roots = []*Node{}
	}
	return roots
}
