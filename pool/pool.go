// Package pool implements the ordered player pool: a size-augmented AVL
// tree giving O(log n) insertion, removal, rank lookup, and rank-range
// slicing, with O(n) in-order iteration.
package pool

import (
	"github.com/LukeAtkinz/matchcore/internal/mmerrors"
	"github.com/LukeAtkinz/matchcore/player"
)

type node struct {
	player *player.Player
	left   *node
	right  *node
	height int
	size   int
}

// Pool is a sorted set of players ordered by (Skill, ID) ascending.
type Pool struct {
	root *node
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// Len returns the number of players currently in the pool. O(1).
func (p *Pool) Len() int {
	return size(p.root)
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func size(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func balance(n *node) int {
	if n == nil {
		return 0
	}
	return height(n.left) - height(n.right)
}

func update(n *node) {
	if n == nil {
		return
	}
	n.height = 1 + max(height(n.left), height(n.right))
	n.size = 1 + size(n.left) + size(n.right)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func rotateLeft(root *node) *node {
	newRoot := root.right
	root.right = newRoot.left
	newRoot.left = root
	update(root)
	update(newRoot)
	return newRoot
}

func rotateRight(root *node) *node {
	newRoot := root.left
	root.left = newRoot.right
	newRoot.right = root
	update(root)
	update(newRoot)
	return newRoot
}

// Add inserts a player into the pool. Adding a player with the same Skill
// and ID as one already present is a no-op; a player with a present ID but
// a different Skill is stored as a separate entry.
func (p *Pool) Add(pl *player.Player) {
	p.root = insert(p.root, pl)
}

func insert(root *node, pl *player.Player) *node {
	if root == nil {
		return &node{player: pl, height: 1, size: 1}
	}

	switch {
	case pl.Less(root.player):
		root.left = insert(root.left, pl)
	case root.player.Less(pl):
		root.right = insert(root.right, pl)
	default:
		return root
	}

	update(root)
	bal := balance(root)

	if bal > 1 && pl.Less(root.left.player) {
		return rotateRight(root)
	}
	if bal < -1 && root.right.player.Less(pl) {
		return rotateLeft(root)
	}
	if bal > 1 && root.left.player.Less(pl) {
		root.left = rotateLeft(root.left)
		return rotateRight(root)
	}
	if bal < -1 && pl.Less(root.right.player) {
		root.right = rotateRight(root.right)
		return rotateLeft(root)
	}

	return root
}

// Remove deletes a player from the pool, failing with mmerrors.NotFound if
// it is absent.
func (p *Pool) Remove(pl *player.Player) error {
	if !p.Contains(pl) {
		return mmerrors.NotFound(pl.ID)
	}
	p.root = delete_(p.root, pl)
	return nil
}

func minValueNode(n *node) *node {
	current := n
	for current.left != nil {
		current = current.left
	}
	return current
}

func delete_(root *node, pl *player.Player) *node {
	if root == nil {
		return nil
	}

	switch {
	case pl.Less(root.player):
		root.left = delete_(root.left, pl)
	case root.player.Less(pl):
		root.right = delete_(root.right, pl)
	default:
		if root.left == nil {
			return root.right
		}
		if root.right == nil {
			return root.left
		}
		successor := minValueNode(root.right)
		root.player = successor.player
		root.right = delete_(root.right, successor.player)
	}

	update(root)
	bal := balance(root)

	if bal > 1 && balance(root.left) >= 0 {
		return rotateRight(root)
	}
	if bal < -1 && balance(root.right) <= 0 {
		return rotateLeft(root)
	}
	if bal > 1 && balance(root.left) < 0 {
		root.left = rotateLeft(root.left)
		return rotateRight(root)
	}
	if bal < -1 && balance(root.right) > 0 {
		root.right = rotateRight(root.right)
		return rotateLeft(root)
	}

	return root
}

// Contains reports whether the player is present in the pool. O(log n).
func (p *Pool) Contains(pl *player.Player) bool {
	n := p.root
	for n != nil {
		switch {
		case pl.Less(n.player):
			n = n.left
		case n.player.Less(pl):
			n = n.right
		default:
			return true
		}
	}
	return false
}

// Rank returns the zero-based position of the player under pool order,
// failing with mmerrors.NotFound if absent. O(log n).
func (p *Pool) Rank(pl *player.Player) (int, error) {
	n := p.root
	accumulated := 0
	for n != nil {
		switch {
		case pl.Less(n.player):
			n = n.left
		case n.player.Less(pl):
			accumulated += size(n.left) + 1
			n = n.right
		default:
			return accumulated + size(n.left), nil
		}
	}
	return 0, mmerrors.NotFound(pl.ID)
}

// At returns the player at the given zero-based rank, failing with
// mmerrors.OutOfBounds if out of range. O(log n).
func (p *Pool) At(index int) (*player.Player, error) {
	if index < 0 || index >= p.Len() {
		return nil, mmerrors.OutOfBounds(index, p.Len())
	}
	return getByIndex(p.root, index), nil
}

func getByIndex(n *node, index int) *player.Player {
	leftSize := size(n.left)
	switch {
	case index < leftSize:
		return getByIndex(n.left, index)
	case index == leftSize:
		return n.player
	default:
		return getByIndex(n.right, index-leftSize-1)
	}
}

// Slice returns the players at ranks [lo, hi) in ascending order. Both
// bounds must be in [0, Len()]; lo > hi or either out of range fails with
// mmerrors.OutOfBounds — callers are responsible for clamping.
func (p *Pool) Slice(lo, hi int) ([]*player.Player, error) {
	n := p.Len()
	if lo < 0 || lo > n {
		return nil, mmerrors.OutOfBounds(lo, n)
	}
	if hi < 0 || hi > n {
		return nil, mmerrors.OutOfBounds(hi, n)
	}
	if hi < lo {
		return nil, mmerrors.OutOfBounds(hi, n)
	}

	result := make([]*player.Player, 0, hi-lo)
	for i := lo; i < hi; i++ {
		result = append(result, getByIndex(p.root, i))
	}
	return result, nil
}

// All returns every player in ascending pool order. O(n).
func (p *Pool) All() []*player.Player {
	result := make([]*player.Player, 0, p.Len())
	inorder(p.root, &result)
	return result
}

func inorder(n *node, out *[]*player.Player) {
	if n == nil {
		return
	}
	inorder(n.left, out)
	*out = append(*out, n.player)
	inorder(n.right, out)
}
