package scaffold

import "strings"

// Placeholder tokens understood by the assembled build configuration.
const (
	NameToken = "PLUGIN_NAME"
	TypeToken = "__PLUGIN_TYPE__"
)

const headerBlock = `# {'plugin_type': __PLUGIN_TYPE__}
`

const startBlock = `
cmake_minimum_required (VERSION 3.21)

if (NOT CMAKE_BUILD_TYPE AND NOT CMAKE_CONFIGURATION_TYPES)
  set(CMAKE_BUILD_TYPE Release CACHE STRING "Choose the type of build." FORCE)
  set_property(CACHE CMAKE_BUILD_TYPE PROPERTY STRINGS "Debug" "Release" "RelWithDebInfo")
endif()

set(CMAKE_CXX_STANDARD 17)
set(CMAKE_CXX_STANDARD_REQUIRED True)
set(CMAKE_CXX_EXTENSIONS ON)
`

const projectBlock = `
project (PLUGIN_NAME LANGUAGES CXX)
`

const cudaProjectBlock = `
project (PLUGIN_NAME LANGUAGES CXX CUDA)
`

const coreBlock = `
if(NOT DEFINED PLUGIN_BUILDER_DIR)
    message(FATAL_ERROR "PLUGIN_BUILDER_DIR is not defined")
endif()

if(NOT DEFINED PLUGIN_DIR)
    message(FATAL_ERROR "PLUGIN_DIR is not defined")
endif()

set(SOURCE_DIR ${CMAKE_CURRENT_SOURCE_DIR}/source)
set(INCLUDE_DIR "${PLUGIN_BUILDER_DIR}/include")
message(STATUS "INCLUDE_DIR: ${INCLUDE_DIR}")

file(GLOB_RECURSE PROJ_SOURCE_FILES "${SOURCE_DIR}/*.cpp" "${SOURCE_DIR}/*.c" "${SOURCE_DIR}/*.cu" "${SOURCE_DIR}/*.h")

set(PRINT_SOURCE_FILES On)
if(PRINT_SOURCE_FILES)
    foreach(source IN LISTS PROJ_SOURCE_FILES)
      message(STATUS "PLUGIN_NAME source: ${source}")
    endforeach()
endif()

add_library(PLUGIN_NAME SHARED ${PROJ_SOURCE_FILES})
target_include_directories(PLUGIN_NAME PRIVATE ${SOURCE_DIR} ${INCLUDE_DIR})
set_target_properties(PLUGIN_NAME PROPERTIES
    PREFIX ""
    RUNTIME_OUTPUT_DIRECTORY "${CMAKE_BINARY_DIR}/bin/${CMAKE_BUILD_TYPE}"
    LIBRARY_OUTPUT_DIRECTORY "${CMAKE_BINARY_DIR}/bin/${CMAKE_BUILD_TYPE}")

add_custom_command(TARGET PLUGIN_NAME POST_BUILD
    COMMAND ${CMAKE_COMMAND} -E copy_if_different
    $<TARGET_FILE:PLUGIN_NAME> "${PLUGIN_DIR}")
`

const cudaBlock = `
# CUDA
#################################################################################################
find_package(CUDAToolkit REQUIRED)
message(STATUS CUDAToolkit_INCLUDE_DIRS=${CUDAToolkit_INCLUDE_DIRS})
target_include_directories(PLUGIN_NAME PRIVATE ${CUDAToolkit_INCLUDE_DIRS})
target_link_libraries(PLUGIN_NAME PRIVATE CUDA::cudart)

# copy the CUDA runtime next to the plugin
set(cuda_runtime_dll "${CUDAToolkit_BIN_DIR}/cudart64_110.dll")
add_custom_command(TARGET PLUGIN_NAME POST_BUILD
    COMMAND ${CMAKE_COMMAND} -E copy_if_different
    ${cuda_runtime_dll} $<TARGET_FILE_DIR:PLUGIN_NAME>)
`

const pythonBlock = `
# Python
#################################################################################################
find_package(Python3 COMPONENTS Development REQUIRED)
message(STATUS Python3_INCLUDE_DIRS=${Python3_INCLUDE_DIRS})
target_include_directories(PLUGIN_NAME PRIVATE ${Python3_INCLUDE_DIRS})
target_link_libraries(PLUGIN_NAME PRIVATE Python3::Python)
`

// blocks returns the ordered raw blocks for a block set.
func blocks(set BlockSet) []string {
	switch set {
	case BlocksCUDA:
		return []string{headerBlock, startBlock, cudaProjectBlock, coreBlock, cudaBlock}
	case BlocksPython:
		return []string{headerBlock, startBlock, projectBlock, coreBlock, pythonBlock}
	default:
		return []string{headerBlock, startBlock, projectBlock, coreBlock}
	}
}

// AssembleBuildConfig renders CMakeLists.txt text for a plugin.
// The type tag is written quoted so ReadHeader can recover it.
func AssembleBuildConfig(kind TemplateKind, name string) string {
	text := strings.Join(blocks(kind.Blocks()), "")
	text = strings.ReplaceAll(text, NameToken, name)
	return strings.ReplaceAll(text, TypeToken, "'"+string(kind.OpType())+"'")
}
