package state

import "strings"

// Key namespaces. Every entity type owns a feature tag so look-ups stay
// deterministic and collision-free across features.
const (
	nsTrust        = "trust"
	nsBalance      = "bzr"
	nsBadge        = "badge"
	nsDispute      = "dispute"
	nsNickname     = "nick"
	nsNicknameIdx  = "nickidx"
	nsEscrow       = "escrow"
	nsWallet       = "wallet"
	nsWalletTx     = "wtx"
	nsLottery      = "lottery"
	nsProposal     = "proposal"
	nsVote         = "vote"
	nsSubscription = "sub"
	nsAdmin        = "admin"
	nsCrowdfund    = "crowdfund"
	nsChat         = "chat"
)

// seqKey is the per-namespace id counter segment. Allocated ids are decimal
// strings, so the segment never collides with an entity key.
const seqKey = "seq"

// key joins segments with the unit separator, which host-issued principal
// identifiers never contain.
func key(segments ...string) []byte {
	return []byte(strings.Join(segments, "\x1f"))
}
