package transfer

import (
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"notemint/cashnote"
	"notemint/jsonx"
	"notemint/keys"
)

// SealedTransfer is an encrypted envelope of cash notes addressed to a
// master key. Derivation indices travel inside it, so only the holder
// of the matching master secret learns which identities are theirs.
type SealedTransfer struct {
	EphemeralPubkey keys.MainPubkey `json:"ephemeral_pubkey"`
	Ciphertext      []byte          `json:"ciphertext"`
}

// Seal encrypts notes toward to. A fresh ephemeral key is agreed
// against the recipient's master pubkey and the resulting symmetric key
// seals the serialized notes; the nonce rides as the ciphertext prefix.
func Seal(rand io.Reader, to keys.MainPubkey, notes []*cashnote.CashNote) (*SealedTransfer, error) {
	if len(notes) == 0 {
		return nil, ErrNothingToSeal
	}
	payload, err := jsonx.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("marshal cash notes: %w", err)
	}

	ephemeral, err := keys.GenerateMainSecretKey(rand)
	if err != nil {
		return nil, err
	}
	sharedKey := ephemeral.SharedSecret(to)
	aead, err := chacha20poly1305.New(sharedKey[:])
	if err != nil {
		return nil, fmt.Errorf("init sealed transfer cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(payload)+aead.Overhead())
	if _, err := io.ReadFull(rand, nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return &SealedTransfer{
		EphemeralPubkey: ephemeral.MainPubkey(),
		Ciphertext:      aead.Seal(nonce, nonce, payload, nil),
	}, nil
}

// Unseal opens the envelope with the recipient's master secret.
func (st *SealedTransfer) Unseal(master keys.MainSecretKey) ([]*cashnote.CashNote, error) {
	sharedKey := master.SharedSecret(st.EphemeralPubkey)
	aead, err := chacha20poly1305.New(sharedKey[:])
	if err != nil {
		return nil, fmt.Errorf("init sealed transfer cipher: %w", err)
	}
	if len(st.Ciphertext) < aead.NonceSize() {
		return nil, fmt.Errorf("sealed transfer too short: %d bytes", len(st.Ciphertext))
	}
	nonce, box := st.Ciphertext[:aead.NonceSize()], st.Ciphertext[aead.NonceSize():]
	payload, err := aead.Open(nil, nonce, box, nil)
	if err != nil {
		return nil, fmt.Errorf("open sealed transfer: %w", err)
	}

	var notes []*cashnote.CashNote
	if err := jsonx.Unmarshal(payload, &notes); err != nil {
		return nil, fmt.Errorf("unmarshal cash notes: %w", err)
	}
	return notes, nil
}
