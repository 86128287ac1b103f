// Package auth 基于可恢复签名的调用授权
//
// 一份授权证明是某地址对调用摘要 (合约标识, 方法, 参数, nonce) 的签名。
// 被已提交调用使用过的证明会记录在同一事务中，再次出示时按未授权处理。
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
	"github.com/weisyn/mintregistry/pkg/types"
)

// Verifier 校验签名由指定地址产生
type Verifier interface {
	VerifyAddress(hash []byte, signature []byte, address string) error
}

// ProofStore 查询授权证明是否已被使用
type ProofStore interface {
	IsProofConsumed(proofID []byte) (bool, error)
}

// 确保 SignatureAuthorizer 实现了 registry.Authorizer 接口
var _ registry.Authorizer = (*SignatureAuthorizer)(nil)

// SignatureAuthorizer 单次调用的授权器
//
// 不是并发安全的，每次调用新建一个。
type SignatureAuthorizer struct {
	verifier Verifier
	proofs   ProofStore
	digest   []byte
	consents map[string]string

	used     [][]byte
	accepted map[string]bool
}

// NewSignatureAuthorizer 根据调用和出示的授权材料创建授权器
// auth 为 nil 时任何 RequireAuth 都失败
func NewSignatureAuthorizer(verifier Verifier, proofs ProofStore, inv *types.Invocation, auth *types.Authorization) *SignatureAuthorizer {
	a := &SignatureAuthorizer{
		verifier: verifier,
		proofs:   proofs,
		digest:   inv.Digest(),
		consents: make(map[string]string),
		accepted: make(map[string]bool),
	}
	if auth != nil {
		for _, c := range auth.Consents {
			a.consents[c.Address] = c.Signature
		}
	}
	return a
}

// RequireAuth 校验 address 对本次调用的授权
func (a *SignatureAuthorizer) RequireAuth(address string) error {
	if a.accepted[address] {
		return nil
	}

	sigHex, ok := a.consents[address]
	if !ok {
		return fmt.Errorf("%w: no consent from %s", registry.ErrUnauthorized, address)
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("%w: malformed signature from %s", registry.ErrUnauthorized, address)
	}
	if err := a.verifier.VerifyAddress(a.digest, sig, address); err != nil {
		return fmt.Errorf("%w: %v", registry.ErrUnauthorized, err)
	}

	proofID := ProofID(a.digest, address)
	consumed, err := a.proofs.IsProofConsumed(proofID)
	if err != nil {
		return err
	}
	if consumed {
		return fmt.Errorf("%w: consent from %s was already used", registry.ErrUnauthorized, address)
	}

	a.accepted[address] = true
	a.used = append(a.used, proofID)
	return nil
}

// Consumed 返回本次调用实际使用的证明标识
func (a *SignatureAuthorizer) Consumed() [][]byte {
	return a.used
}

// ProofID 授权证明标识：SHA256(调用摘要 || 地址)
func ProofID(digest []byte, address string) []byte {
	h := sha256.New()
	h.Write(digest)
	h.Write([]byte(address))
	return h.Sum(nil)
}
