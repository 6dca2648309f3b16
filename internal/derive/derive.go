// Package derive computes the program-derived addresses of a CPMM pool.
package derive

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/igefined/cpmm-listing-screener/internal/domain"
)

type Seeds struct {
	Pool  []byte
	Vault []byte
}

func DefaultSeeds() Seeds {
	return Seeds{
		Pool:  []byte("pool"),
		Vault: []byte("pool_vault"),
	}
}

// Derive returns the pool state and the two vault addresses for the mint pair.
// The seed order matches the program: pool = [pool, config, mintA, mintB],
// vault = [pool_vault, pool, mint].
func Derive(programID, configAccount, mintA, mintB solana.PublicKey, seeds Seeds) (domain.DerivedAddresses, error) {
	poolState, _, err := solana.FindProgramAddress(
		[][]byte{seeds.Pool, configAccount.Bytes(), mintA.Bytes(), mintB.Bytes()},
		programID,
	)
	if err != nil {
		return domain.DerivedAddresses{}, fmt.Errorf("%w: pool state: %w", domain.ErrDerivation, err)
	}

	vaultA, err := vault(programID, poolState, mintA, seeds.Vault)
	if err != nil {
		return domain.DerivedAddresses{}, err
	}

	vaultB, err := vault(programID, poolState, mintB, seeds.Vault)
	if err != nil {
		return domain.DerivedAddresses{}, err
	}

	return domain.DerivedAddresses{
		PoolState: poolState,
		Vault0:    vaultA,
		Vault1:    vaultB,
	}, nil
}

func vault(programID, poolState, mint solana.PublicKey, seed []byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{seed, poolState.Bytes(), mint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: vault for mint %s: %w", domain.ErrDerivation, mint, err)
	}
	return addr, nil
}
