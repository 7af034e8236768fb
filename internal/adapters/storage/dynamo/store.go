// Package dynamo implementa el Repository contra DynamoDB.
//
// Diseño de claves: PK = SK = "MONKEY#<monkey_id>", un item por
// registro. Cada item lleva copias en minúsculas de name y species
// (name_lc / species_lc) para poder filtrar case-insensitive del lado
// del servidor, y un GSI (GSI_Species: species_lc / name_lc) para las
// consultas por especie. Si el índice no está o la query falla, se cae
// a un Scan con filter expression; el error de la query no se propaga.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"monkey-registry/internal/domain/monkeys"
)

const (
	entityMonkey = "MONKEY"
	indexSpecies = "GSI_Species"
)

// API es el subconjunto del cliente dynamodb que usa el store.
// Existe para poder inyectar un fake en tests.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type Store struct {
	client API
	table  string
}

// New arma el cliente con la config default de AWS (credenciales por
// env/perfil) y la región indicada.
func New(ctx context.Context, table, region string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Store{client: dynamodb.NewFromConfig(cfg), table: table}, nil
}

// NewWithClient permite inyectar un cliente ya armado (tests, endpoint local).
func NewWithClient(client API, table string) *Store {
	return &Store{client: client, table: table}
}

// item es la forma persistida en la tabla. age_years viaja como número
// de dynamo (precisión arbitraria), por eso float64 acá y la
// normalización a entero en fromItem.
type item struct {
	PK             string  `dynamodbav:"PK"`
	SK             string  `dynamodbav:"SK"`
	Entity         string  `dynamodbav:"entity"`
	MonkeyID       string  `dynamodbav:"monkey_id"`
	Name           string  `dynamodbav:"name"`
	Species        string  `dynamodbav:"species"`
	AgeYears       float64 `dynamodbav:"age_years"`
	FavouriteFruit string  `dynamodbav:"favourite_fruit"`
	LastCheckupAt  string  `dynamodbav:"last_checkup_at,omitempty"`
	CreatedAt      string  `dynamodbav:"created_at"`
	UpdatedAt      string  `dynamodbav:"updated_at"`
	NameLC         string  `dynamodbav:"name_lc"`
	SpeciesLC      string  `dynamodbav:"species_lc"`
}

func pk(id string) string {
	return "MONKEY#" + id
}

func keyFor(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk(id)},
		"SK": &types.AttributeValueMemberS{Value: pk(id)},
	}
}

func toItem(m monkeys.Monkey) item {
	return item{
		PK:             pk(m.MonkeyID),
		SK:             pk(m.MonkeyID),
		Entity:         entityMonkey,
		MonkeyID:       m.MonkeyID,
		Name:           m.Name,
		Species:        string(m.Species),
		AgeYears:       float64(m.AgeYears),
		FavouriteFruit: m.FavouriteFruit,
		LastCheckupAt:  m.LastCheckupAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		NameLC:         strings.ToLower(strings.TrimSpace(m.Name)),
		SpeciesLC:      strings.ToLower(strings.TrimSpace(string(m.Species))),
	}
}

// intIfWhole colapsa los números de precisión arbitraria del backend:
// entero si el valor es exacto, si no queda como float y el caller
// decide (acá age es entero por contrato, así que lo no-entero es error).
func intIfWhole(f float64) (int, bool) {
	if f == math.Trunc(f) {
		return int(f), true
	}
	return 0, false
}

func fromItem(it item) (monkeys.Monkey, error) {
	age, ok := intIfWhole(it.AgeYears)
	if !ok {
		return monkeys.Monkey{}, fmt.Errorf("%w: age_years %v is not a whole number", monkeys.ErrValidation, it.AgeYears)
	}
	return monkeys.Monkey{
		MonkeyID:       it.MonkeyID,
		Name:           it.Name,
		Species:        monkeys.Species(it.Species),
		AgeYears:       age,
		FavouriteFruit: it.FavouriteFruit,
		LastCheckupAt:  it.LastCheckupAt,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}, nil
}

func decodeItems(raw []map[string]types.AttributeValue) ([]monkeys.Monkey, error) {
	var items []item
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, err
	}
	out := make([]monkeys.Monkey, 0, len(items))
	for _, it := range items {
		m, err := fromItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Create es un put condicional: falla si la PK ya existe. Es el único
// camino del backend protegido contra carreras de id duplicado.
func (s *Store) Create(ctx context.Context, m monkeys.Monkey) (monkeys.Monkey, error) {
	av, err := attributevalue.MarshalMap(toItem(m))
	if err != nil {
		return monkeys.Monkey{}, err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conflict *types.ConditionalCheckFailedException
		if errors.As(err, &conflict) {
			return monkeys.Monkey{}, monkeys.ErrAlreadyExists
		}
		return monkeys.Monkey{}, err
	}
	return m, nil
}

func (s *Store) Get(ctx context.Context, id string) (monkeys.Monkey, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       keyFor(id),
	})
	if err != nil {
		return monkeys.Monkey{}, false, err
	}
	if len(out.Item) == 0 {
		return monkeys.Monkey{}, false, nil
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return monkeys.Monkey{}, false, err
	}
	m, err := fromItem(it)
	if err != nil {
		return monkeys.Monkey{}, false, err
	}
	return m, true, nil
}

// Update es read-modify-write: trae el item actual, mergea los campos
// no nil y sobreescribe sin condición (last-writer-wins). Escritores
// concurrentes sobre el mismo registro pueden perder un cambio.
func (s *Store) Update(ctx context.Context, id string, p monkeys.Partial) (monkeys.Monkey, bool, error) {
	current, found, err := s.Get(ctx, id)
	if err != nil || !found {
		return monkeys.Monkey{}, found, err
	}

	merged := current.Merge(p)
	if p.UpdatedAt == nil {
		merged.UpdatedAt = monkeys.NowISO()
	}

	av, err := attributevalue.MarshalMap(toItem(merged))
	if err != nil {
		return monkeys.Monkey{}, false, err
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	}); err != nil {
		return monkeys.Monkey{}, false, err
	}
	return merged, true, nil
}

// Delete usa ReturnValues ALL_OLD para distinguir "borrado" de "no
// existía" y sostener el contrato booleano de la interfaz.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          keyFor(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(out.Attributes) > 0, nil
}

func (s *Store) List(ctx context.Context, f monkeys.ListFilter) ([]monkeys.Monkey, error) {
	name := strings.ToLower(strings.TrimSpace(f.Name))
	species := strings.ToLower(strings.TrimSpace(f.Species))

	// Con especie presente conviene el GSI; name acota por prefijo de
	// sort key. Si la query falla (índice ausente, error transitorio)
	// se cae al scan de abajo sin propagar.
	if species != "" {
		keyCond := expression.Key("species_lc").Equal(expression.Value(species))
		if name != "" {
			keyCond = keyCond.And(expression.Key("name_lc").BeginsWith(name))
		}
		if items, err := s.queryIndex(ctx, keyCond, nil); err == nil {
			return items, nil
		}
	}

	filter := expression.Name("entity").Equal(expression.Value(entityMonkey))
	if species != "" {
		filter = filter.And(expression.Name("species_lc").Equal(expression.Value(species)))
	}
	if name != "" {
		filter = filter.And(expression.Name("name_lc").Contains(name))
	}
	return s.scan(ctx, filter)
}

func (s *Store) Search(ctx context.Context, query string) ([]monkeys.Monkey, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []monkeys.Monkey{}, nil
	}

	// Primero probamos la query como especie exacta vía GSI; si el
	// índice no responde o no hay match, scan con OR sobre los campos
	// en minúsculas.
	keyCond := expression.Key("species_lc").Equal(expression.Value(q))
	if items, err := s.queryIndex(ctx, keyCond, nil); err == nil && len(items) > 0 {
		return items, nil
	}

	filter := expression.Name("entity").Equal(expression.Value(entityMonkey)).
		And(expression.Name("name_lc").Contains(q).
			Or(expression.Name("species_lc").Contains(q)))
	return s.scan(ctx, filter)
}

func (s *Store) FindByNameSpecies(ctx context.Context, name, species string) (monkeys.Monkey, bool, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	sp := strings.ToLower(strings.TrimSpace(species))

	keyCond := expression.Key("species_lc").Equal(expression.Value(sp)).
		And(expression.Key("name_lc").Equal(expression.Value(n)))
	limit := int32(1)
	if items, err := s.queryIndex(ctx, keyCond, &limit); err == nil {
		if len(items) == 0 {
			return monkeys.Monkey{}, false, nil
		}
		return items[0], true, nil
	}

	filter := expression.Name("entity").Equal(expression.Value(entityMonkey)).
		And(expression.Name("species_lc").Equal(expression.Value(sp))).
		And(expression.Name("name_lc").Equal(expression.Value(n)))
	items, err := s.scan(ctx, filter)
	if err != nil {
		return monkeys.Monkey{}, false, err
	}
	if len(items) == 0 {
		return monkeys.Monkey{}, false, nil
	}
	return items[0], true, nil
}

func (s *Store) queryIndex(ctx context.Context, keyCond expression.KeyConditionBuilder, limit *int32) ([]monkeys.Monkey, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, err
	}
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		IndexName:                 aws.String(indexSpecies),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeItems(out.Items)
}

func (s *Store) scan(ctx context.Context, filter expression.ConditionBuilder) ([]monkeys.Monkey, error) {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, err
	}
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, err
	}
	return decodeItems(out.Items)
}
