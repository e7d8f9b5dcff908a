package snowflake

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// GeneratorType 区分不同业务的 ID 序列
type GeneratorType int

const (
	GeneratorTypeUser GeneratorType = iota
	GeneratorTypePing
	GeneratorTypeMessage
	generatorCount
)

var (
	nodes   [generatorCount]*snowflake.Node
	once    sync.Once
	initErr error

	errInvalidMachineID   = errors.New("invalid snowflake machine id")
	errGeneratorUninitial = errors.New("snowflake generator is not initialized")
)

func Init(machineID, dataCenterID int64) error {
	// 参数校验放在 once 之外，非法调用不消耗一次性初始化的机会
	if machineID < 0 || machineID > 31 || dataCenterID < 0 || dataCenterID > 31 {
		return errInvalidMachineID
	}

	once.Do(func() {
		// datacenterID 和 machineID 都是 0~31，不同业务序列错开 nodeID
		base := (dataCenterID << 5) | machineID
		for i := range nodes {
			node, err := snowflake.NewNode((base + int64(i)) % 1024)
			if err != nil {
				initErr = err
				return
			}
			nodes[i] = node
		}
	})

	// initErr 留在包级变量里，首个失败对之后的每次调用都可见
	return initErr
}

func NextID(t GeneratorType) (int64, error) {
	if t < 0 || t >= generatorCount || nodes[t] == nil {
		return 0, errGeneratorUninitial
	}

	return nodes[t].Generate().Int64(), nil
}
