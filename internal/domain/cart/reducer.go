package cart

// ActionType 购物车动作类型
type ActionType string

const (
	ActionAddItem    ActionType = "ADD_ITEM"    // 加购一件
	ActionRemoveItem ActionType = "REMOVE_ITEM" // 减少一件
	ActionDeleteItem ActionType = "DELETE_ITEM" // 删除整行
)

// Action 购物车动作
// ADD_ITEM使用Line,REMOVE_ITEM/DELETE_ITEM使用ID
type Action struct {
	Type ActionType
	Line Line
	ID   string
}

// Reduce 纯函数: (state, action) → 新state
// 设计说明:
// 1. 不修改传入的state,需要变更时返回新切片
// 2. 未知动作原样返回state,永不panic
// 3. 没有错误分支,非法输入一律视为no-op
func Reduce(state Cart, action Action) Cart {
	switch action.Type {
	case ActionAddItem:
		return AddItem(state, action.Line)
	case ActionRemoveItem:
		return RemoveItem(state, action.ID)
	case ActionDeleteItem:
		return DeleteItem(state, action.ID)
	default:
		return state
	}
}

// AddItem 加购
// 业务规则:
// - 已存在的ID只增加数量,其他字段保留原值(包括可能已过期的价格)
// - 不存在则追加到末尾,数量固定为1(忽略传入的Quantity)
func AddItem(state Cart, line Line) Cart {
	i := state.indexOf(line.ID)
	if i < 0 {
		next := make(Cart, len(state), len(state)+1)
		copy(next, state)
		line.Quantity = 1
		return append(next, line)
	}

	next := clone(state)
	next[i].Quantity++
	return next
}

// RemoveItem 减少一件
// 数量>1时减1;数量==1时移除整行;ID不存在时返回原state
func RemoveItem(state Cart, id string) Cart {
	i := state.indexOf(id)
	if i < 0 {
		return state
	}
	if state[i].Quantity > 1 {
		next := clone(state)
		next[i].Quantity--
		return next
	}
	return without(state, i)
}

// DeleteItem 删除整行(无论数量),ID不存在时返回原state
// 幂等:对同一ID调用两次与调用一次效果相同
func DeleteItem(state Cart, id string) Cart {
	i := state.indexOf(id)
	if i < 0 {
		return state
	}
	return without(state, i)
}

// Normalize 把外部来源的购物车(如持久化快照)整理成满足不变量的state
// 规则:
// - ID为空、数量<1或价格为负的行丢弃
// - 重复ID合并到首次出现的行,数量相加,其他字段以首行为准
// - 保留首次出现的顺序
// 已经合法的输入原样复制返回
func Normalize(state Cart) Cart {
	next := make(Cart, 0, len(state))
	for _, l := range state {
		if l.ID == "" || l.Quantity < 1 || l.Price.IsNegative() {
			continue
		}
		if i := next.indexOf(l.ID); i >= 0 {
			next[i].Quantity += l.Quantity
			continue
		}
		next = append(next, l)
	}
	return next
}

func clone(state Cart) Cart {
	next := make(Cart, len(state))
	copy(next, state)
	return next
}

func without(state Cart, i int) Cart {
	next := make(Cart, 0, len(state)-1)
	next = append(next, state[:i]...)
	return append(next, state[i+1:]...)
}
