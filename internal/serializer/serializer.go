package serializer

// Serializer 抽象了文本层“对象 <-> 字节流”的序列化能力。
//
// 设计目标：
//   - 面向向量的文本表示：实数向量为数字数组，复数向量为 [re, im] 二元数组的数组。
//   - 调用方通过接口注入具体实现，便于切换 JSON 引擎。
type Serializer interface {
	// Marshal 将任意对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象。
	//
	// v 通常为指针类型，用于接收解码结果。
	Unmarshal(data []byte, v any) error

	// Name 返回实现名称，用于日志与指标。
	Name() string
}
