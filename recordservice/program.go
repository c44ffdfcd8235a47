package recordservice

import (
	"context"
	"fmt"
	"log"

	"github.com/gagliardetto/solana-go"
	"github.com/solrecord/record-service/backend"
	"github.com/solrecord/record-service/codec"
	"github.com/solrecord/record-service/config"
	"github.com/solrecord/record-service/program"
	"github.com/solrecord/record-service/utils"
)

// Callback receives cache updates. new is nil when the account was closed.
type Callback interface {
	OnClassUpdate(old *KeyedClass, new *KeyedClass) error
	OnRecordUpdate(old *KeyedRecord, new *KeyedRecord) error
	OnDelegateUpdate(old *KeyedDelegate, new *KeyedDelegate) error
}

// Program is the client-side binding of the record service: it caches
// decoded program accounts and builds instructions for every operation the
// on-chain program accepts.
type Program struct {
	backend        *backend.Backend
	log            *log.Logger
	ctx            context.Context
	id             solana.PublicKey
	descriptor     *codec.Program
	classes        map[solana.PublicKey]*KeyedClass
	records        map[solana.PublicKey]*KeyedRecord
	delegates      map[solana.PublicKey]*KeyedDelegate
	updateAccounts chan *backend.Account
	cb             Callback
}

func NewProgram(ctx context.Context, be *backend.Backend, cb Callback) *Program {
	p := &Program{
		ctx:            ctx,
		backend:        be,
		id:             program.RecordService,
		descriptor:     Descriptor(),
		classes:        make(map[solana.PublicKey]*KeyedClass),
		records:        make(map[solana.PublicKey]*KeyedRecord),
		delegates:      make(map[solana.PublicKey]*KeyedDelegate),
		updateAccounts: make(chan *backend.Account, 1024),
		cb:             cb,
	}
	return p
}

func (p *Program) Name() string {
	return "record service"
}

func (p *Program) Id() solana.PublicKey {
	return p.id
}

func (p *Program) Descriptor() *codec.Program {
	return p.descriptor
}

func (p *Program) Start() error {
	p.log = utils.NewLog(config.LogPath, p.Name())
	p.log.Printf("start record service program: %s......", p.Id())
	go p.update()
	return nil
}

func (p *Program) Stop() error {
	p.log.Printf("stop record service program......")
	return nil
}

// RetrieveAll fetches every program account and caches whatever decodes.
func (p *Program) RetrieveAll() error {
	accounts, err := p.backend.ProgramAccounts(p.id, nil)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if err := p.buildAccount(account); err != nil {
			p.log.Printf("account(%s) err: %s", account.PubKey, err)
		}
	}
	return nil
}

func (p *Program) RetrieveClasses(pubkeys []solana.PublicKey) error {
	return p.retrieve(pubkeys)
}

func (p *Program) RetrieveRecords(pubkeys []solana.PublicKey) error {
	return p.retrieve(pubkeys)
}

func (p *Program) RetrieveDelegates(pubkeys []solana.PublicKey) error {
	return p.retrieve(pubkeys)
}

func (p *Program) retrieve(pubkeys []solana.PublicKey) error {
	accounts, err := p.backend.Accounts(pubkeys)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if err := p.buildAccount(account); err != nil {
			p.log.Printf("account(%s) err: %s", account.PubKey, err)
		}
	}
	return nil
}

func (p *Program) GetClass(key solana.PublicKey) *KeyedClass {
	class, ok := p.classes[key]
	if !ok {
		return nil
	}
	return class
}

func (p *Program) GetRecord(key solana.PublicKey) *KeyedRecord {
	record, ok := p.records[key]
	if !ok {
		return nil
	}
	return record
}

func (p *Program) GetDelegate(key solana.PublicKey) *KeyedDelegate {
	delegate, ok := p.delegates[key]
	if !ok {
		return nil
	}
	return delegate
}

func (p *Program) Classes() []*KeyedClass {
	classes := make([]*KeyedClass, 0, len(p.classes))
	for _, class := range p.classes {
		classes = append(classes, class)
	}
	return classes
}

func (p *Program) Records() []*KeyedRecord {
	records := make([]*KeyedRecord, 0, len(p.records))
	for _, record := range p.records {
		records = append(records, record)
	}
	return records
}

// buildAccount dispatches on the discriminator byte and refreshes the
// matching cache.
func (p *Program) buildAccount(account *backend.Account) error {
	if account.Account == nil {
		return fmt.Errorf("account(%s) is missing", account.PubKey)
	}
	// a closed account shows up with zero lamports and no data
	if account.Account.Lamports == 0 || len(account.Account.Data.GetBinary()) == 0 {
		p.removeAccount(account.PubKey)
		return nil
	}
	if account.Account.Owner != p.id {
		return fmt.Errorf("account(%s) is not a record service account, expected owner: %s, actual: %s",
			account.PubKey, p.id, account.Account.Owner)
	}
	data := account.Account.Data.GetBinary()
	schema, err := p.descriptor.Accounts.Resolve(data)
	if err != nil {
		return err
	}
	switch schema {
	case ClassSchema:
		class, err := DecodeClass(data)
		if err != nil {
			return err
		}
		p.upsertClass(account, class)
	case RecordSchema:
		record, err := DecodeRecord(data)
		if err != nil {
			return err
		}
		p.upsertRecord(account, record)
	case RecordDelegateSchema:
		delegate, err := DecodeRecordDelegate(data)
		if err != nil {
			return err
		}
		p.upsertDelegate(account, delegate)
	}
	return nil
}

func (p *Program) upsertClass(account *backend.Account, layout ClassLayout) *KeyedClass {
	var old *KeyedClass
	if cached, ok := p.classes[account.PubKey]; ok {
		copied := *cached
		old = &copied
	}
	keyed := &KeyedClass{
		Key:         account.PubKey,
		Height:      account.Height,
		Lamports:    account.Account.Lamports,
		ClassLayout: layout,
	}
	p.classes[account.PubKey] = keyed
	if p.cb != nil {
		p.cb.OnClassUpdate(old, keyed)
	}
	return keyed
}

func (p *Program) upsertRecord(account *backend.Account, layout RecordLayout) *KeyedRecord {
	var old *KeyedRecord
	if cached, ok := p.records[account.PubKey]; ok {
		copied := *cached
		old = &copied
	}
	keyed := &KeyedRecord{
		Key:          account.PubKey,
		Height:       account.Height,
		Lamports:     account.Account.Lamports,
		RecordLayout: layout,
	}
	p.records[account.PubKey] = keyed
	if p.cb != nil {
		p.cb.OnRecordUpdate(old, keyed)
	}
	return keyed
}

func (p *Program) upsertDelegate(account *backend.Account, layout RecordDelegateLayout) *KeyedDelegate {
	var old *KeyedDelegate
	if cached, ok := p.delegates[account.PubKey]; ok {
		copied := *cached
		old = &copied
	}
	keyed := &KeyedDelegate{
		Key:                  account.PubKey,
		Height:               account.Height,
		Lamports:             account.Account.Lamports,
		RecordDelegateLayout: layout,
	}
	p.delegates[account.PubKey] = keyed
	if p.cb != nil {
		p.cb.OnDelegateUpdate(old, keyed)
	}
	return keyed
}

func (p *Program) removeAccount(key solana.PublicKey) {
	if old, ok := p.classes[key]; ok {
		delete(p.classes, key)
		if p.cb != nil {
			p.cb.OnClassUpdate(old, nil)
		}
	}
	if old, ok := p.records[key]; ok {
		delete(p.records, key)
		if p.cb != nil {
			p.cb.OnRecordUpdate(old, nil)
		}
	}
	if old, ok := p.delegates[key]; ok {
		delete(p.delegates, key)
		if p.cb != nil {
			p.cb.OnDelegateUpdate(old, nil)
		}
	}
}

func (p *Program) OnAccountUpdate(account *backend.Account) error {
	p.updateAccounts <- account
	return nil
}

// SubscribeAll registers every cached account for update notification.
func (p *Program) SubscribeAll() error {
	for key := range p.classes {
		p.backend.SubscribeAccount(key, p)
	}
	for key := range p.records {
		p.backend.SubscribeAccount(key, p)
	}
	for key := range p.delegates {
		p.backend.SubscribeAccount(key, p)
	}
	return nil
}

func (p *Program) update() {
	for {
		select {
		case account := <-p.updateAccounts:
			if account.Height > program.GlobalSlot {
				program.GlobalSlot = account.Height
			}
			if err := p.buildAccount(account); err != nil {
				p.log.Printf("update account err: %s", err)
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// ClassSpace is the on-chain byte size of a class account.
func ClassSpace(name, metadata string) uint64 {
	return uint64(ClassSchema.MinSize() + len(name) + len(metadata))
}

// RecordSpace is the on-chain byte size of a record account.
func RecordSpace(name, data string) uint64 {
	return uint64(RecordSchema.MinSize() + len(name) + len(data))
}

func (p *Program) instruction(data []byte, metas []*solana.AccountMeta) solana.Instruction {
	return &program.Instruction{
		IsAccounts:  metas,
		IsData:      data,
		IsProgramID: p.id,
	}
}

func (p *Program) InstructionCreateClass(authority solana.PublicKey, isPermissioned, isFrozen bool, name, metadata string) (solana.Instruction, error) {
	class, _, err := ClassAddress(authority, name)
	if err != nil {
		return nil, err
	}
	data, err := CreateClassSchema.Encode(map[string]interface{}{
		"isPermissioned": isPermissioned,
		"isFrozen":       isFrozen,
		"name":           name,
		"metadata":       metadata,
	})
	if err != nil {
		return nil, err
	}
	return p.instruction(data, []*solana.AccountMeta{
		{PublicKey: authority, IsSigner: true, IsWritable: true},
		{PublicKey: class, IsSigner: false, IsWritable: true},
		{PublicKey: program.System, IsSigner: false, IsWritable: false},
	}), nil
}

func (p *Program) InstructionUpdateClassMetadata(authority, class solana.PublicKey, metadata string) (solana.Instruction, error) {
	data, err := UpdateClassMetadataSchema.Encode(map[string]interface{}{
		"metadata": metadata,
	})
	if err != nil {
		return nil, err
	}
	return p.instruction(data, []*solana.AccountMeta{
		{PublicKey: authority, IsSigner: true, IsWritable: true},
		{PublicKey: class, IsSigner: false, IsWritable: true},
		{PublicKey: program.System, IsSigner: false, IsWritable: false},
	}), nil
}

func (p *Program) InstructionFreezeClass(authority, class solana.PublicKey, isFrozen bool) (solana.Instruction, error) {
	data, err := FreezeClassSchema.Encode(map[string]interface{}{
		"isFrozen": isFrozen,
	})
	if err != nil {
		return nil, err
	}
	return p.instruction(data, []*solana.AccountMeta{
		{PublicKey: authority, IsSigner: true, IsWritable: false},
		{PublicKey: class, IsSigner: false, IsWritable: true},
	}), nil
}

func (p *Program) InstructionCreateRecord(owner, payer, class solana.PublicKey, expiration int64, name, recordData string) (solana.Instruction, error) {
	record, _, err := RecordAddress(class, name)
	if err != nil {
		return nil, err
	}
	data, err := CreateRecordSchema.Encode(map[string]interface{}{
		"expiration": expiration,
		"name":       name,
		"data":       recordData,
	})
	if err != nil {
		return nil, err
	}
	return p.instruction(data, []*solana.AccountMeta{
		{PublicKey: owner, IsSigner: false, IsWritable: false},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: class, IsSigner: false, IsWritable: false},
		{PublicKey: record, IsSigner: false, IsWritable: true},
		{PublicKey: program.System, IsSigner: false, IsWritable: false},
	}), nil
}

// InstructionUpdateRecord signs as the owner or an update authority; pass
// the delegate PDA when acting through one. The system program meta is
// required for the resize the update may trigger.
func (p *Program) InstructionUpdateRecord(authority, record solana.PublicKey, delegate *solana.PublicKey, recordData string) (solana.Instruction, error) {
	data, err := UpdateRecordSchema.Encode(map[string]interface{}{
		"data": recordData,
	})
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		{PublicKey: authority, IsSigner: true, IsWritable: true},
		{PublicKey: record, IsSigner: false, IsWritable: true},
		{PublicKey: program.System, IsSigner: false, IsWritable: false},
	}
	if delegate != nil {
		metas = append(metas, &solana.AccountMeta{PublicKey: *delegate, IsSigner: false, IsWritable: false})
	}
	return p.instruction(data, metas), nil
}

func (p *Program) InstructionTransferRecord(owner, record, newOwner solana.PublicKey, delegate *solana.PublicKey) (solana.Instruction, error) {
	data, err := TransferRecordSchema.Encode(map[string]interface{}{
		"newOwner": newOwner,
	})
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		{PublicKey: owner, IsSigner: true, IsWritable: false},
		{PublicKey: record, IsSigner: false, IsWritable: true},
	}
	if delegate != nil {
		metas = append(metas, &solana.AccountMeta{PublicKey: *delegate, IsSigner: false, IsWritable: false})
	}
	return p.instruction(data, metas), nil
}

// InstructionDeleteRecord closes the record; the payer receives the
// reclaimed lamports.
func (p *Program) InstructionDeleteRecord(authority, payer, record solana.PublicKey) (solana.Instruction, error) {
	data, err := DeleteRecordSchema.Encode(map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	return p.instruction(data, []*solana.AccountMeta{
		{PublicKey: authority, IsSigner: true, IsWritable: false},
		{PublicKey: payer, IsSigner: false, IsWritable: true},
		{PublicKey: record, IsSigner: false, IsWritable: true},
	}), nil
}

func (p *Program) InstructionFreezeRecord(authority, record solana.PublicKey, delegate *solana.PublicKey, isFrozen bool) (solana.Instruction, error) {
	data, err := FreezeRecordSchema.Encode(map[string]interface{}{
		"isFrozen": isFrozen,
	})
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		{PublicKey: authority, IsSigner: true, IsWritable: false},
		{PublicKey: record, IsSigner: false, IsWritable: true},
	}
	if delegate != nil {
		metas = append(metas, &solana.AccountMeta{PublicKey: *delegate, IsSigner: false, IsWritable: false})
	}
	return p.instruction(data, metas), nil
}

func (p *Program) InstructionCreateRecordDelegate(owner, record solana.PublicKey, authorities *DelegateAuthorities) (solana.Instruction, error) {
	delegate, _, err := DelegateAddress(record)
	if err != nil {
		return nil, err
	}
	data, err := CreateRecordDelegateSchema.Encode(authorities.values())
	if err != nil {
		return nil, err
	}
	return p.instruction(data, []*solana.AccountMeta{
		{PublicKey: owner, IsSigner: true, IsWritable: true},
		{PublicKey: record, IsSigner: false, IsWritable: true},
		{PublicKey: delegate, IsSigner: false, IsWritable: true},
		{PublicKey: program.System, IsSigner: false, IsWritable: false},
	}), nil
}

func (p *Program) InstructionUpdateRecordDelegate(owner, record solana.PublicKey, authorities *DelegateAuthorities) (solana.Instruction, error) {
	delegate, _, err := DelegateAddress(record)
	if err != nil {
		return nil, err
	}
	data, err := UpdateRecordDelegateSchema.Encode(authorities.values())
	if err != nil {
		return nil, err
	}
	return p.instruction(data, []*solana.AccountMeta{
		{PublicKey: owner, IsSigner: true, IsWritable: false},
		{PublicKey: record, IsSigner: false, IsWritable: false},
		{PublicKey: delegate, IsSigner: false, IsWritable: true},
	}), nil
}

func (p *Program) InstructionDeleteRecordDelegate(owner, record solana.PublicKey) (solana.Instruction, error) {
	delegate, _, err := DelegateAddress(record)
	if err != nil {
		return nil, err
	}
	data, err := DeleteRecordDelegateSchema.Encode(map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	return p.instruction(data, []*solana.AccountMeta{
		{PublicKey: owner, IsSigner: true, IsWritable: true},
		{PublicKey: record, IsSigner: false, IsWritable: false},
		{PublicKey: delegate, IsSigner: false, IsWritable: true},
	}), nil
}

// DecodeInstruction resolves an instruction payload by its first byte and
// decodes the arguments.
func (p *Program) DecodeInstruction(data []byte) (*codec.Schema, map[string]interface{}, error) {
	return p.descriptor.Instructions.Decode(data)
}
