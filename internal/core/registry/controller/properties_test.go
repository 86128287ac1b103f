package controller

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/weisyn/mintregistry/internal/core/registry/auth"
	"github.com/weisyn/mintregistry/internal/core/registry/state"
	"github.com/weisyn/mintregistry/internal/core/registry/testutil"
	"github.com/weisyn/mintregistry/pkg/constants"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

var wallets = []string{owner, alice, bob, "Ccarol", "Cdave"}

// TestMintInvariants 随机操作序列下的不变量：
// 总量单调不减且不超过上限、地址计数不超过上限、编号稠密且唯一、
// 被拒绝的调用不改变任何状态
func TestMintInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kv := testutil.NewMemKV()
		h := newHarness(t, kv)
		h.initialize()

		var expectedOwners []string
		for i := uint32(0); i < constants.TokensReserved; i++ {
			expectedOwners = append(expectedOwners, owner)
		}
		lastSupply := h.totalSupply()

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			before := kv.Snapshot()

			switch rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("op-%d", i)) {
			case 0:
				h.flip()
			case 1:
				to := rapid.SampledFrom(wallets).Draw(rt, fmt.Sprintf("to-%d", i))
				n := uint32(rapid.IntRange(0, 12).Draw(rt, fmt.Sprintf("n-%d", i)))
				ids, err := h.mint(to, n)
				if err != nil {
					require.Equal(rt, before, kv.Snapshot(), "rejected mint mutated state")
					break
				}
				for j, id := range ids {
					require.Equal(rt, lastSupply+uint32(j)+1, id)
					expectedOwners = append(expectedOwners, to)
				}
			case 2:
				// 未经授权的调用
				to := rapid.SampledFrom(wallets).Draw(rt, fmt.Sprintf("victim-%d", i))
				_, err := h.exec(auth.Allow("Cmallory"), func(env *Env) error {
					_, err := h.ctrl.Mint(env, to, 1)
					return err
				})
				require.ErrorIs(rt, err, registry.ErrUnauthorized)
				require.Equal(rt, before, kv.Snapshot())
			}

			supply := h.totalSupply()
			require.GreaterOrEqual(rt, supply, lastSupply)
			require.LessOrEqual(rt, supply, constants.MaxTokens)
			lastSupply = supply
		}

		require.Equal(rt, uint32(len(expectedOwners)), lastSupply)
		h.view(func(st *state.State) {
			for idx, want := range expectedOwners {
				got, err := OwnerOf(st, uint32(idx)+1)
				require.NoError(rt, err)
				require.Equal(rt, want, got)
			}
			_, found, err := st.TokenOwner(lastSupply + 1)
			require.NoError(rt, err)
			require.False(rt, found)

			for _, w := range wallets {
				minted, err := MintedBy(st, w)
				require.NoError(rt, err)
				require.LessOrEqual(rt, minted, constants.MaxMintPerTx)
			}
		})
	})
}

// TestFlipIsInvolution 连续两次切换恢复原值
func TestFlipIsInvolution(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness(t, testutil.NewMemKV())
		h.initialize()

		flips := rapid.IntRange(0, 6).Draw(rt, "flips")
		for i := 0; i < flips; i++ {
			h.flip()
		}
		start := h.snapshotSale()
		h.flip()
		h.flip()
		require.Equal(rt, start, h.snapshotSale())
		require.Equal(rt, flips%2 == 1, start)
	})
}
