package ledger

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"

	"github.com/privmind/therapy-svc/internal/data"
)

// businessDataABI is the ABI of the on-chain business-data registry holding
// therapy sessions. The encrypted mood value is stored as an euint32 handle.
const businessDataABI = `[
	{"type":"function","name":"getAllBusinessIds","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string[]"}]},
	{"type":"function","name":"getBusinessData","stateMutability":"view","inputs":[{"name":"businessId","type":"string"}],"outputs":[{"name":"name","type":"string"},{"name":"publicValue1","type":"uint256"},{"name":"publicValue2","type":"uint256"},{"name":"timestamp","type":"uint256"},{"name":"creator","type":"address"},{"name":"isVerified","type":"bool"},{"name":"decryptedValue","type":"uint256"}]},
	{"type":"function","name":"getEncryptedValue","stateMutability":"view","inputs":[{"name":"businessId","type":"string"}],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"createBusinessData","stateMutability":"nonpayable","inputs":[{"name":"businessId","type":"string"},{"name":"name","type":"string"},{"name":"encryptedValue","type":"bytes32"},{"name":"inputProof","type":"bytes"},{"name":"publicValue1","type":"uint256"},{"name":"publicValue2","type":"uint256"},{"name":"description","type":"string"}],"outputs":[]},
	{"type":"function","name":"verifyDecryption","stateMutability":"nonpayable","inputs":[{"name":"businessId","type":"string"},{"name":"clearValues","type":"bytes"},{"name":"decryptionProof","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"isAvailable","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]}
]`

// Client is the read-only proxy to the session registry contract. Every call
// re-reads chain state; nothing is cached.
type Client struct {
	eth      *ethclient.Client
	contract *bind.BoundContract
	address  common.Address
	log      *logan.Entry
}

func NewClient(eth *ethclient.Client, address common.Address, log *logan.Entry) *Client {
	parsed, err := abi.JSON(strings.NewReader(businessDataABI))
	if err != nil {
		panic(err)
	}

	return &Client{
		eth:      eth,
		contract: bind.NewBoundContract(address, parsed, eth, eth, eth),
		address:  address,
		log:      log,
	}
}

func (c *Client) Address() common.Address {
	return c.address
}

// AllSessionIDs enumerates every session identifier in ledger order.
func (c *Client) AllSessionIDs(ctx context.Context) ([]string, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAllBusinessIds"); err != nil {
		return nil, errors.Wrap(err, "failed to enumerate session ids")
	}

	return *abi.ConvertType(out[0], new([]string)).(*[]string), nil
}

// SessionData hydrates a single session record, mapping the raw tuple into a
// typed record at the boundary.
func (c *Client) SessionData(ctx context.Context, id string) (data.Session, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getBusinessData", id); err != nil {
		return data.Session{}, errors.Wrap(err, "failed to get session data", logan.F{"id": id})
	}

	return data.Session{
		ID:             id,
		Title:          *abi.ConvertType(out[0], new(string)).(*string),
		PublicValue1:   bigToUint64(abi.ConvertType(out[1], new(*big.Int)).(**big.Int)),
		PublicValue2:   bigToUint64(abi.ConvertType(out[2], new(*big.Int)).(**big.Int)),
		Timestamp:      time.Unix(int64(bigToUint64(abi.ConvertType(out[3], new(*big.Int)).(**big.Int))), 0),
		Creator:        *abi.ConvertType(out[4], new(common.Address)).(*common.Address),
		IsVerified:     *abi.ConvertType(out[5], new(bool)).(*bool),
		DecryptedValue: bigToUint64(abi.ConvertType(out[6], new(*big.Int)).(**big.Int)),
	}, nil
}

// EncryptedValue resolves the opaque ciphertext handle of a session.
func (c *Client) EncryptedValue(ctx context.Context, id string) ([32]byte, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getEncryptedValue", id); err != nil {
		return [32]byte{}, errors.Wrap(err, "failed to get encrypted value", logan.F{"id": id})
	}

	return *abi.ConvertType(out[0], new([32]byte)).(*[32]byte), nil
}

// IsAvailable probes contract liveness. No state implications.
func (c *Client) IsAvailable(ctx context.Context) (bool, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isAvailable"); err != nil {
		return false, errors.Wrap(err, "failed to check availability")
	}

	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func bigToUint64(v **big.Int) uint64 {
	if v == nil || *v == nil {
		return 0
	}
	return (*v).Uint64()
}
